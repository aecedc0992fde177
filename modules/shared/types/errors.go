package types

import (
	"github.com/go-faster/errors"
)

// ErrValidation matches every ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// Sentinel errors for value object construction and arithmetic.
var (
	ErrCurrencyRequired   = errors.New("currency is required")
	ErrNegativeAmount     = errors.New("amount cannot be negative")
	ErrCurrencyMismatch   = errors.New("currencies differ")
	ErrInsufficientAmount = errors.New("insufficient amount")
	ErrValueRequired      = errors.New("value is required")
)

// ValidationError reports malformed input for a named field.
// It matches both ErrValidation and the underlying reason.
type ValidationError struct {
	Field string
	Err   error
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}
