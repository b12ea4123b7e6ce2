package doctor

import "errors"

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrDoctorAlreadyExists = errors.New("doctor profile already exists for this user")
	ErrNameRequired        = errors.New("doctor name is required")
)
