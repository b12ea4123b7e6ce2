package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new doctor profile. Returns ErrDoctorAlreadyExists
	// if a profile already exists for the same UserID.
	Create(ctx context.Context, d *Doctor) error

	// GetByID retrieves a doctor by primary key. Returns ErrDoctorNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)

	// GetByUserID resolves the doctor profile for a session user.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
}
