package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/analyzer"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/prediction"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/service"
)

type PredictionHandler struct {
	predictionSvc *service.PredictionService
}

func NewPredictionHandler(predictionSvc *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionSvc: predictionSvc}
}

// Analyze stages the submitted OCT measurements for one patient and returns
// the result for review. Nothing is persisted until the result is saved.
func (h *PredictionHandler) Analyze(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var m analyzer.Measurements
	if !bindJSON(c, &m) {
		return
	}

	result, err := h.predictionSvc.Analyze(c.Request.Context(), id, callerDoctorID(c), m)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, result)
}

type savePredictionRequest struct {
	ImagePath     string                          `json:"image_path"`
	FeatureVector prediction.FeatureVector        `json:"feature_vector"`
	Stage         string                          `json:"predicted_stage" binding:"required"`
	Probability   float64                         `json:"probability"`
	Explanation   []prediction.FeatureAttribution `json:"explanation"`
	DoctorNotes   string                          `json:"doctor_notes"`
}

// Save persists one reviewed analysis result as an immutable prediction.
func (h *PredictionHandler) Save(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req savePredictionRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := callerClaims(c)
	p, err := h.predictionSvc.SavePrediction(c.Request.Context(), &prediction.CreatePredictionCommand{
		DoctorID:      callerDoctorID(c),
		PatientID:     id,
		ImagePath:     req.ImagePath,
		FeatureVector: req.FeatureVector,
		Stage:         prediction.Stage(req.Stage),
		Probability:   req.Probability,
		Explanation:   prediction.Explanation(req.Explanation),
		DoctorNotes:   req.DoctorNotes,
	}, claims.UserID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, p)
}

// ListForPatient returns a patient's prediction history, newest first.
func (h *PredictionHandler) ListForPatient(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	q := &prediction.ListPredictionsQuery{
		PatientID: id,
		Page:      parseQueryInt(c, "page", 1),
		PageSize:  parseQueryInt(c, "page_size", 20),
	}

	page, err := h.predictionSvc.ListForPatient(c.Request.Context(), q, callerDoctorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, page)
}
