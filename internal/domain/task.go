package domain

import (
	"strings"
	"time"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	// TaskStatusPending is assigned to every new task.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusInProgress marks a task that has been started.
	TaskStatusInProgress TaskStatus = "in-progress"
	// TaskStatusCompleted marks a finished task.
	TaskStatusCompleted TaskStatus = "completed"
)

// Values written by UpdateModeReset for fields the caller did not supply.
const (
	DefaultTitle       = "Default Title"
	DefaultDescription = "Default Description"
	DefaultStatus      = TaskStatusPending
)

// Valid reports whether s is one of the supported statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// ParseTaskStatus converts raw input into a TaskStatus.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	status := TaskStatus(strings.TrimSpace(raw))
	if !status.Valid() {
		return "", NewValidationError("status", "must be one of pending, in-progress, completed", ErrInvalidStatus)
	}
	return status, nil
}

// Task is a unit of work with a status.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask builds a pending task with both timestamps set to now.
func NewTask(id, title, description string, now time.Time) (*Task, error) {
	task := &Task{
		ID:          id,
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      TaskStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks the task invariants.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return NewValidationError("id", "is required", ErrInvalidID)
	}
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "cannot be empty", ErrEmptyTitle)
	}
	if !t.Status.Valid() {
		return NewValidationError("status", "must be one of pending, in-progress, completed", ErrInvalidStatus)
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return NewValidationError("updatedAt", "cannot be before createdAt", ErrValidation)
	}
	return nil
}

// Clone returns a copy of t.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}
