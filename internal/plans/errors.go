package plans

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrCatalogUnavailable = errors.New("exercise catalog unavailable")
)

const (
	ErrorCodeValidation            = "validation_error"
	ErrorCodeConfigUnavailable     = "config_unavailable"
	ErrorCodeInsufficientExercises = "insufficient_exercises"
	ErrorCodeNotFound              = "not_found"
	ErrorCodeInternal              = "internal_error"
)
