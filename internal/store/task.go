package store

import (
	"context"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// TaskStore defines the interface for task record persistence.
type TaskStore interface {
	// Create saves a fully formed task and returns it unchanged.
	// Returns ErrDuplicate if a task with the same ID already exists.
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// List returns every stored task in no particular order.
	// Returns an empty, non-nil slice when the store holds no tasks.
	List(ctx context.Context) ([]*domain.Task, error)

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id string) (*domain.Task, error)

	// Update writes the non-nil fields of update and its UpdatedAt timestamp
	// and returns the task as stored afterwards.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id string, update domain.TaskUpdate) (*domain.Task, error)

	// Delete removes a task permanently.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id string) error
}
