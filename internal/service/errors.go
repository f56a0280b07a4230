package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/tasks-api/internal/store"
)

// Sentinel errors identifying which use case failed. Callers check them with
// errors.Is; the underlying cause stays reachable through errors.Unwrap.
var (
	ErrCreateTask = errors.New("failed to create task")
	ErrListTasks  = errors.New("failed to list tasks")
	ErrGetTask    = errors.New("failed to get task")
	ErrUpdateTask = errors.New("failed to update task")
	ErrDeleteTask = errors.New("failed to delete task")
	ErrUploadFile = errors.New("failed to upload file")
)

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Kind is the sentinel for the failed use case, e.g. ErrCreateTask.
	Kind error
	// Operation is the operation that failed (e.g., "create_task").
	Operation string
	// Message is a human-readable description of the error.
	Message string
	// Err is the underlying error that caused the failure.
	Err error
}

// Error implements the error interface.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// Is matches the use case sentinel.
func (e *TaskServiceError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// NewTaskServiceError wraps err for operation. A missing task is returned as
// store.ErrTaskNotFound without wrapping, except on create where every
// failure is reported as ErrCreateTask.
func NewTaskServiceError(kind error, operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if kind != ErrCreateTask && errors.Is(err, store.ErrTaskNotFound) {
		return store.ErrTaskNotFound
	}
	return &TaskServiceError{
		Kind:      kind,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// UploadServiceError wraps errors from the upload service with context.
type UploadServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *UploadServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("upload service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *UploadServiceError) Unwrap() error {
	return e.Err
}

// Is reports a match for ErrUploadFile.
func (e *UploadServiceError) Is(target error) bool {
	return target == ErrUploadFile
}

// NewUploadServiceError wraps err, or returns nil when err is nil.
func NewUploadServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	return &UploadServiceError{Operation: operation, Message: message, Err: err}
}
