package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/patient"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/service"
)

type PatientHandler struct {
	patientSvc *service.PatientService
}

func NewPatientHandler(patientSvc *service.PatientService) *PatientHandler {
	return &PatientHandler{patientSvc: patientSvc}
}

type createPatientRequest struct {
	PatientCode    string   `json:"patient_code" binding:"required"`
	Name           string   `json:"name" binding:"required"`
	Age            int      `json:"age"`
	Gender         string   `json:"gender" binding:"required"`
	MedicalHistory string   `json:"medical_history"`
	RiskFactors    []string `json:"risk_factors"`
}

func (h *PatientHandler) Create(c *gin.Context) {
	var req createPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := callerClaims(c)
	p, err := h.patientSvc.CreatePatient(c.Request.Context(), &patient.CreatePatientCommand{
		DoctorID:       callerDoctorID(c),
		PatientCode:    req.PatientCode,
		Name:           req.Name,
		Age:            req.Age,
		Gender:         patient.Gender(req.Gender),
		MedicalHistory: req.MedicalHistory,
		RiskFactors:    req.RiskFactors,
	}, claims.UserID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, p)
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims := callerClaims(c)
	p, err := h.patientSvc.GetPatient(c.Request.Context(), id, callerDoctorID(c), claims.UserID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

func (h *PatientHandler) List(c *gin.Context) {
	q := &patient.ListPatientsQuery{
		DoctorID: callerDoctorID(c),
		Search:   c.Query("search"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	page, err := h.patientSvc.ListPatients(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, page)
}
