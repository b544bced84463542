package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Operations wrap one of these so the HTTP
// layer can classify failures with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrExternalService = errors.New("external service failure")
)

// ErrInvalidTransition is returned when a proof status change is not allowed
// from the proof's current status.
var ErrInvalidTransition = fmt.Errorf("%w: invalid proof status transition", ErrValidation)

// Kind names the error category of err for API responses.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrValidation):
		return "ValidationFailed"
	case errors.Is(err, ErrExternalService):
		return "ExternalServiceFailure"
	default:
		return "Internal"
	}
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
