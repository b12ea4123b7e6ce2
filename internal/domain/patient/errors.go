package patient

import "errors"

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrInvalidGender       = errors.New("invalid gender value")
	ErrInvalidAge          = errors.New("age must be between 0 and 120")
	ErrPatientCodeRequired = errors.New("patient code is required")
	ErrNameRequired        = errors.New("patient name is required")
)
