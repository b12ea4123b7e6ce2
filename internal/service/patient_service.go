package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/patient"
	"github.com/Jeevanbnj/glaucoma-ai-insights/pkg/metrics"
)

type PatientService struct {
	repo     patient.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *PatientService {
	return &PatientService{
		repo:     repo,
		auditSvc: auditSvc,
		metrics:  m,
		log:      log,
	}
}

func (s *PatientService) CreatePatient(ctx context.Context, cmd *patient.CreatePatientCommand, callerUserID uuid.UUID, ip string) (*patient.Patient, error) {
	if err := validateCreatePatientCommand(cmd); err != nil {
		return nil, err
	}

	p := &patient.Patient{
		DoctorID:       cmd.DoctorID,
		PatientCode:    strings.TrimSpace(cmd.PatientCode),
		Name:           strings.TrimSpace(cmd.Name),
		Age:            cmd.Age,
		Gender:         cmd.Gender,
		MedicalHistory: strings.TrimSpace(cmd.MedicalHistory),
		RiskFactors:    patient.RiskFactors(cmd.RiskFactors),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, fmt.Errorf("creating patient: %w", err)
	}

	s.metrics.PatientsCreatedTotal.Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerUserID,
		Action:       string(domain.ActionCreate),
		ResourceType: "patient",
		ResourceID:   p.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("patient created",
		zap.String("patient_id", p.ID.String()),
		zap.String("doctor_id", cmd.DoctorID.String()),
	)

	return p, nil
}

// GetPatient fetches one patient. Ownership is enforced on single-record
// reads as well: a patient belonging to another doctor reads as not found,
// so record identifiers leak nothing across doctors.
func (s *PatientService) GetPatient(ctx context.Context, id uuid.UUID, callerDoctorID uuid.UUID, callerUserID uuid.UUID, ip string) (*patient.Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !p.OwnedBy(callerDoctorID) {
		return nil, patient.ErrPatientNotFound
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerUserID,
		Action:       string(domain.ActionRead),
		ResourceType: "patient",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return p, nil
}

// ListPatients returns only the caller's own patients, newest first.
// An empty page is a valid, non-error result.
func (s *PatientService) ListPatients(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	return s.repo.List(ctx, q)
}

func validateCreatePatientCommand(cmd *patient.CreatePatientCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(cmd.PatientCode) == "" {
		errs = append(errs, "patient_code is required")
	}
	if cmd.Age < 0 || cmd.Age > patient.MaxAge {
		errs = append(errs, "age must be between 0 and 120")
	}
	if !cmd.Gender.IsValid() {
		errs = append(errs, "gender must be one of male, female, other")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
