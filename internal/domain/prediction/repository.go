package prediction

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new prediction. Saved predictions are immutable;
	// no update or delete operation exists.
	Create(ctx context.Context, p *Prediction) error

	// GetByID retrieves a prediction by primary key. Returns ErrPredictionNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Prediction, error)

	// ListByPatient returns a patient's predictions, newest first.
	ListByPatient(ctx context.Context, q *ListPredictionsQuery) (*PagedPredictions, error)

	// ListRecentByDoctor returns the doctor's most recent predictions across all patients.
	ListRecentByDoctor(ctx context.Context, doctorID uuid.UUID, limit int) ([]*Prediction, error)

	// CountByDoctor returns how many predictions the doctor has saved.
	CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error)

	// CountByDoctorSince counts the doctor's predictions created at or after the given time.
	CountByDoctorSince(ctx context.Context, doctorID uuid.UUID, since time.Time) (int64, error)
}
