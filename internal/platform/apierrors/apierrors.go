// Package apierrors defines the error taxonomy shared by the domain
// services: field-level validation errors, duplicate-key conflicts, missing
// references, and opaque transaction failures. Handlers map these onto HTTP
// status codes; everything else is treated as an internal error.
package apierrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing referenced entity (404).
	ErrNotFound = errors.New("not found")
	// ErrDuplicate marks a unique-constraint violation (409).
	ErrDuplicate = errors.New("already exists")
	// ErrConflict marks an operation rejected by current state (409),
	// e.g. deleting a department that still has visits.
	ErrConflict = errors.New("conflict")
)

// ValidationError reports a malformed or missing input field. It is always
// recoverable by caller correction and surfaces with field-level detail.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsValidation unwraps a ValidationError, or returns nil.
func AsValidation(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// IsDuplicate reports whether err is (or wraps) ErrDuplicate.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// NotFound wraps ErrNotFound with the entity kind for the caller message.
func NotFound(kind string) error {
	return fmt.Errorf("%s %w", kind, ErrNotFound)
}

// Duplicate wraps ErrDuplicate with the conflicting field.
func Duplicate(field string) error {
	return fmt.Errorf("%s %w", field, ErrDuplicate)
}
