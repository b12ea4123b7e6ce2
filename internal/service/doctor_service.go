package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/doctor"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/patient"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/prediction"
)

type DoctorService struct {
	repo           doctor.Repository
	patientRepo    patient.Repository
	predictionRepo prediction.Repository
	log            *zap.Logger
}

func NewDoctorService(
	repo doctor.Repository,
	patientRepo patient.Repository,
	predictionRepo prediction.Repository,
	log *zap.Logger,
) *DoctorService {
	return &DoctorService{
		repo:           repo,
		patientRepo:    patientRepo,
		predictionRepo: predictionRepo,
		log:            log,
	}
}

// GetCurrentDoctor resolves the doctor profile for a session user.
// Returns doctor.ErrDoctorNotFound if the user has no profile.
func (s *DoctorService) GetCurrentDoctor(ctx context.Context, userID uuid.UUID) (*doctor.Doctor, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// DashboardStats aggregates the doctor's caseload counters. "Today" is the
// server's local calendar day.
func (s *DoctorService) DashboardStats(ctx context.Context, doctorID uuid.UUID) (*doctor.DashboardStats, error) {
	totalPatients, err := s.patientRepo.CountByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	totalPredictions, err := s.predictionRepo.CountByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayCases, err := s.predictionRepo.CountByDoctorSince(ctx, doctorID, startOfDay)
	if err != nil {
		return nil, err
	}

	return &doctor.DashboardStats{
		TotalPatients:    totalPatients,
		TotalPredictions: totalPredictions,
		TodayCases:       todayCases,
	}, nil
}

// RecentPredictions returns the doctor's latest saved predictions across all
// patients, for the dashboard table.
func (s *DoctorService) RecentPredictions(ctx context.Context, doctorID uuid.UUID, limit int) ([]*prediction.Prediction, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	return s.predictionRepo.ListRecentByDoctor(ctx, doctorID, limit)
}
