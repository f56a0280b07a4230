package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a second entity
	// with the same key.
	ErrDuplicate = errors.New("entity already exists")

	// ErrPersistence is returned when the backend fails to read or write.
	// Check the wrapped error for the backend specific cause.
	ErrPersistence = errors.New("persistence failure")

	// ErrUpload is returned when a blob cannot be written.
	ErrUpload = errors.New("upload failed")

	// ErrTaskNotFound indicates that the requested task does not exist in the store.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrBucketNotConfigured indicates that no bucket was configured for uploads.
	ErrBucketNotConfigured = fmt.Errorf("%w: bucket not configured", ErrUpload)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "task", "blob")
	Operation string // The operation that failed (e.g., "create", "list")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// PersistenceError wraps a backend failure so that it matches ErrPersistence
// while keeping the backend cause reachable through errors.Unwrap.
func PersistenceError(entity, operation string, cause error) *StoreError {
	return NewStoreError(entity, operation, "backend error", errors.Join(ErrPersistence, cause))
}

// UploadError wraps a blob write failure so that it matches ErrUpload.
func UploadError(operation string, cause error) *StoreError {
	return NewStoreError("blob", operation, "backend error", errors.Join(ErrUpload, cause))
}
