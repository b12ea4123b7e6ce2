package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/patient"
)

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) patient.Repository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, p *patient.Patient) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *patientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *patientRepository) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	tx := r.db.WithContext(ctx).Model(&patient.Patient{}).
		Where("doctor_id = ?", q.DoctorID)

	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where("name ILIKE ? OR patient_code ILIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var patients []*patient.Patient
	offset := (q.Page - 1) * q.PageSize
	if err := tx.Order("created_at DESC").Limit(q.PageSize).Offset(offset).Find(&patients).Error; err != nil {
		return nil, err
	}

	return &patient.PagedPatients{
		Patients:   patients,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func (r *patientRepository) CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&patient.Patient{}).
		Where("doctor_id = ?", doctorID).
		Count(&count).Error
	return count, err
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
