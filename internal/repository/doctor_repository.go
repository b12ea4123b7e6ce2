package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/doctor"
)

type doctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) doctor.Repository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, d *doctor.Doctor) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return doctor.ErrDoctorAlreadyExists
		}
		return err
	}
	return nil
}

func (r *doctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, doctor.ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, doctor.ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}
