package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/doctor"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/prediction"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/service"
)

type DoctorHandler struct {
	doctorSvc *service.DoctorService
}

func NewDoctorHandler(doctorSvc *service.DoctorService) *DoctorHandler {
	return &DoctorHandler{doctorSvc: doctorSvc}
}

// Me returns the doctor profile of the current session.
func (h *DoctorHandler) Me(c *gin.Context) {
	claims := callerClaims(c)

	d, err := h.doctorSvc.GetCurrentDoctor(c.Request.Context(), claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, d)
}

type dashboardResponse struct {
	Stats             *doctor.DashboardStats   `json:"stats"`
	RecentPredictions []*prediction.Prediction `json:"recent_predictions"`
}

// Dashboard aggregates caseload counters and the latest predictions.
func (h *DoctorHandler) Dashboard(c *gin.Context) {
	doctorID := callerDoctorID(c)

	stats, err := h.doctorSvc.DashboardStats(c.Request.Context(), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	recent, err := h.doctorSvc.RecentPredictions(c.Request.Context(), doctorID, parseQueryInt(c, "recent", 5))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, dashboardResponse{
		Stats:             stats,
		RecentPredictions: recent,
	})
}
