package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/analyzer"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/patient"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/prediction"
	"github.com/Jeevanbnj/glaucoma-ai-insights/pkg/metrics"
)

type PredictionService struct {
	repo        prediction.Repository
	patientRepo patient.Repository
	analyzer    *analyzer.Analyzer
	auditSvc    *AuditService
	metrics     *metrics.Collector
	log         *zap.Logger
}

func NewPredictionService(
	repo prediction.Repository,
	patientRepo patient.Repository,
	an *analyzer.Analyzer,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
) *PredictionService {
	return &PredictionService{
		repo:        repo,
		patientRepo: patientRepo,
		analyzer:    an,
		auditSvc:    auditSvc,
		metrics:     m,
		log:         log,
	}
}

// Analyze runs the staging workflow for one patient: Idle -> Analyzing ->
// ResultsReady. The result is returned to the caller for review; nothing is
// persisted until SavePrediction.
func (s *PredictionService) Analyze(ctx context.Context, patientID uuid.UUID, callerDoctorID uuid.UUID, m analyzer.Measurements) (*analyzer.Result, error) {
	if _, err := s.ownedPatient(ctx, patientID, callerDoctorID); err != nil {
		return nil, err
	}

	wf := prediction.NewWorkflow()
	if err := wf.Begin(); err != nil {
		return nil, err
	}

	result := s.analyzer.Analyze(m)

	if err := wf.Complete(); err != nil {
		return nil, err
	}

	s.metrics.AnalysesTotal.WithLabelValues(string(result.Stage)).Inc()
	s.log.Info("analysis completed",
		zap.String("patient_id", patientID.String()),
		zap.String("stage", string(result.Stage)),
		zap.Float64("probability", result.Probability),
	)

	return &result, nil
}

// SavePrediction persists one reviewed analysis result. The record is
// immutable once written; it always references a patient owned by the
// calling doctor.
func (s *PredictionService) SavePrediction(ctx context.Context, cmd *prediction.CreatePredictionCommand, callerUserID uuid.UUID, ip string) (*prediction.Prediction, error) {
	if err := validateCreatePredictionCommand(cmd); err != nil {
		return nil, err
	}

	if _, err := s.ownedPatient(ctx, cmd.PatientID, cmd.DoctorID); err != nil {
		return nil, err
	}

	explanation := make(prediction.Explanation, len(cmd.Explanation))
	copy(explanation, cmd.Explanation)
	if err := explanation.Normalize(); err != nil {
		return nil, &ValidationError{Fields: []string{err.Error()}}
	}

	p := &prediction.Prediction{
		DoctorID:       cmd.DoctorID,
		PatientID:      cmd.PatientID,
		ImagePath:      strings.TrimSpace(cmd.ImagePath),
		FeatureVector:  cmd.FeatureVector,
		PredictedStage: cmd.Stage,
		Probability:    cmd.Probability,
		Explanation:    explanation,
		DoctorNotes:    strings.TrimSpace(cmd.DoctorNotes),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create prediction", zap.Error(err))
		return nil, fmt.Errorf("creating prediction: %w", err)
	}

	s.metrics.PredictionsSavedTotal.WithLabelValues(string(p.PredictedStage)).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerUserID,
		Action:       string(domain.ActionCreate),
		ResourceType: "prediction",
		ResourceID:   p.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("prediction saved",
		zap.String("prediction_id", p.ID.String()),
		zap.String("patient_id", p.PatientID.String()),
		zap.String("stage", string(p.PredictedStage)),
	)

	return p, nil
}

// ListForPatient returns a patient's predictions, newest first. The patient
// must belong to the calling doctor.
func (s *PredictionService) ListForPatient(ctx context.Context, q *prediction.ListPredictionsQuery, callerDoctorID uuid.UUID) (*prediction.PagedPredictions, error) {
	if _, err := s.ownedPatient(ctx, q.PatientID, callerDoctorID); err != nil {
		return nil, err
	}

	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	return s.repo.ListByPatient(ctx, q)
}

// ownedPatient loads the patient and hides records of other doctors behind
// not-found, matching the list filter semantics.
func (s *PredictionService) ownedPatient(ctx context.Context, patientID uuid.UUID, doctorID uuid.UUID) (*patient.Patient, error) {
	p, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !p.OwnedBy(doctorID) {
		return nil, patient.ErrPatientNotFound
	}
	return p, nil
}

func validateCreatePredictionCommand(cmd *prediction.CreatePredictionCommand) error {
	var errs []string

	if !cmd.Stage.IsValid() {
		errs = append(errs, "predicted_stage must be one of Normal, Early Glaucoma, Moderate Glaucoma, Advanced Glaucoma")
	}
	if cmd.Probability < 0.0 || cmd.Probability > 1.0 {
		errs = append(errs, "probability must be between 0.0 and 1.0")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
