package prediction

import "errors"

var (
	ErrPredictionNotFound = errors.New("prediction not found")
	ErrInvalidStage       = errors.New("invalid predicted stage")
	ErrInvalidProbability = errors.New("probability must be between 0.0 and 1.0")
	ErrNegativeImportance = errors.New("feature importance must be non-negative")
	ErrInvalidDirection   = errors.New("invalid feature direction")
	ErrInvalidTransition  = errors.New("invalid workflow transition")
)
