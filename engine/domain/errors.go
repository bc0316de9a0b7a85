package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation failures.
var (
	ErrInvalidVehicle     = errors.New("invalid vehicle record")
	ErrInvalidEnvironment = errors.New("invalid environment record")
	ErrNegativeValue      = errors.New("negative value")
	ErrInvalidVIN         = errors.New("invalid VIN")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidDustLevel   = errors.New("invalid dust level")
	ErrInvalidUrgency     = errors.New("invalid urgency")
)

// ValidationError wraps a sentinel with field context.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
