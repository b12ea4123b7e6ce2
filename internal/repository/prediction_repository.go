package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/prediction"
)

type predictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) prediction.Repository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) Create(ctx context.Context, p *prediction.Prediction) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *predictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*prediction.Prediction, error) {
	var p prediction.Prediction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, prediction.ErrPredictionNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *predictionRepository) ListByPatient(ctx context.Context, q *prediction.ListPredictionsQuery) (*prediction.PagedPredictions, error) {
	tx := r.db.WithContext(ctx).Model(&prediction.Prediction{}).
		Where("patient_id = ?", q.PatientID)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var predictions []*prediction.Prediction
	offset := (q.Page - 1) * q.PageSize
	if err := tx.Order("created_at DESC").Limit(q.PageSize).Offset(offset).Find(&predictions).Error; err != nil {
		return nil, err
	}

	return &prediction.PagedPredictions{
		Predictions: predictions,
		TotalCount:  total,
		Page:        q.Page,
		PageSize:    q.PageSize,
		TotalPages:  totalPages(total, q.PageSize),
	}, nil
}

func (r *predictionRepository) ListRecentByDoctor(ctx context.Context, doctorID uuid.UUID, limit int) ([]*prediction.Prediction, error) {
	var predictions []*prediction.Prediction
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&predictions).Error
	return predictions, err
}

func (r *predictionRepository) CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&prediction.Prediction{}).
		Where("doctor_id = ?", doctorID).
		Count(&count).Error
	return count, err
}

func (r *predictionRepository) CountByDoctorSince(ctx context.Context, doctorID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&prediction.Prediction{}).
		Where("doctor_id = ? AND created_at >= ?", doctorID, since).
		Count(&count).Error
	return count, err
}
