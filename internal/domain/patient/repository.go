package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new patient record.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// List returns a doctor's patients, newest first.
	List(ctx context.Context, q *ListPatientsQuery) (*PagedPatients, error)

	// CountByDoctor returns how many patients the doctor owns.
	CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error)
}
