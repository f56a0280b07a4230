package domain

import (
	"fmt"
	"strings"
	"time"
)

// UpdateMode decides what happens to fields omitted from an update.
type UpdateMode string

const (
	// UpdateModeMerge keeps the stored value of every omitted field.
	UpdateModeMerge UpdateMode = "merge"

	// UpdateModeReset overwrites omitted fields with DefaultTitle,
	// DefaultDescription and DefaultStatus.
	UpdateModeReset UpdateMode = "reset"
)

// ParseUpdateMode converts a configuration value into an UpdateMode.
// An empty value selects UpdateModeMerge.
func ParseUpdateMode(raw string) (UpdateMode, error) {
	switch mode := UpdateMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "":
		return UpdateModeMerge, nil
	case UpdateModeMerge, UpdateModeReset:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown update mode %q", raw)
	}
}

// TaskUpdate is a partial change to a stored task. Nil fields are left
// untouched by a store; UpdatedAt is always written.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	UpdatedAt   time.Time
}

// Validate checks the supplied fields.
func (u TaskUpdate) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return NewValidationError("title", "cannot be empty", ErrEmptyTitle)
	}
	if u.Status != nil && !u.Status.Valid() {
		return NewValidationError("status", "must be one of pending, in-progress, completed", ErrInvalidStatus)
	}
	return nil
}

// Resolve returns the update a store should apply under mode. In reset mode
// every omitted field is filled with its default.
func (u TaskUpdate) Resolve(mode UpdateMode) TaskUpdate {
	if mode != UpdateModeReset {
		return u
	}

	resolved := u
	if resolved.Title == nil {
		title := DefaultTitle
		resolved.Title = &title
	}
	if resolved.Description == nil {
		description := DefaultDescription
		resolved.Description = &description
	}
	if resolved.Status == nil {
		status := DefaultStatus
		resolved.Status = &status
	}
	return resolved
}

// ApplyTo writes the non-nil fields and UpdatedAt onto task.
func (u TaskUpdate) ApplyTo(task *Task) {
	if u.Title != nil {
		task.Title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		task.Description = *u.Description
	}
	if u.Status != nil {
		task.Status = *u.Status
	}
	task.UpdatedAt = u.UpdatedAt
}
