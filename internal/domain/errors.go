package domain

import (
	"errors"
	"fmt"
)

// Common domain errors.
var (
	// ErrValidation is the root of every input validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyTitle indicates that a task title is missing or blank.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrInvalidStatus indicates a status outside the supported set.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidID indicates that a task identifier is missing or malformed.
	ErrInvalidID = errors.New("invalid task id")

	// ErrEmptyFile indicates an upload without a name or without content.
	ErrEmptyFile = errors.New("file is empty")
)

// ValidationError describes a single invalid field. It matches ErrValidation
// and the more specific cause through errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Unwrap exposes the specific cause.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrValidation, so every ValidationError is
// recognised as a validation failure regardless of its specific cause.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
