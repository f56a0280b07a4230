package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

const taskServiceComponent = "task_service"

// CreateTaskParams are the caller supplied fields of a new task.
type CreateTaskParams struct {
	Title       string
	Description string
}

// UpdateTaskParams carries a partial update. Nil fields were not supplied.
type UpdateTaskParams struct {
	Title       *string
	Description *string
	Status      *string
}

// TaskService provides task operations.
type TaskService interface {
	// Create validates params and stores a new pending task.
	Create(ctx context.Context, params CreateTaskParams) (*domain.Task, error)

	// List returns every task.
	List(ctx context.Context) ([]*domain.Task, error)

	// GetByID returns the task or store.ErrTaskNotFound.
	GetByID(ctx context.Context, id string) (*domain.Task, error)

	// Update applies params under the configured update mode.
	Update(ctx context.Context, id string, params UpdateTaskParams) (*domain.Task, error)

	// Delete removes the task or returns store.ErrTaskNotFound.
	Delete(ctx context.Context, id string) error
}

type taskServiceImpl struct {
	tasks  store.TaskStore
	mode   domain.UpdateMode
	opts   options
	logger *slog.Logger
}

// NewTaskService creates a TaskService. It returns an error if tasks is nil
// or mode is not a known update mode.
func NewTaskService(
	tasks store.TaskStore,
	mode domain.UpdateMode,
	logger *slog.Logger,
	opts ...Option,
) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "task store cannot be nil",
		}
	}
	if mode == "" {
		mode = domain.UpdateModeMerge
	}
	if mode != domain.UpdateModeMerge && mode != domain.UpdateModeReset {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "unknown update mode " + string(mode),
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:  tasks,
		mode:   mode,
		opts:   buildOptions(opts),
		logger: logger.With("component", taskServiceComponent),
	}, nil
}

func (s *taskServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextForComponent(ctx, s.logger, taskServiceComponent)
}

// Create implements TaskService.
func (s *taskServiceImpl) Create(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	task, err := domain.NewTask(s.opts.newID(), params.Title, params.Description, s.opts.clock())
	if err != nil {
		s.log(ctx).Debug("invalid task rejected", "error", err)
		return nil, NewTaskServiceError(ErrCreateTask, "create_task", "invalid task", err)
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		s.log(ctx).Error("failed to save task",
			"error", err,
			"task_id", task.ID)
		return nil, NewTaskServiceError(ErrCreateTask, "create_task", "failed to save task", err)
	}

	s.log(ctx).Info("task created", "task_id", created.ID)
	return created, nil
}

// List implements TaskService.
func (s *taskServiceImpl) List(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		s.log(ctx).Error("failed to list tasks", "error", err)
		return nil, NewTaskServiceError(ErrListTasks, "list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// GetByID implements TaskService.
func (s *taskServiceImpl) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if err := validateID(id); err != nil {
		return nil, NewTaskServiceError(ErrGetTask, "get_task", "invalid id", err)
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.log(ctx).Error("failed to get task", "error", err, "task_id", id)
		}
		return nil, NewTaskServiceError(ErrGetTask, "get_task", "failed to get task", err)
	}
	return task, nil
}

// Update implements TaskService.
func (s *taskServiceImpl) Update(ctx context.Context, id string, params UpdateTaskParams) (*domain.Task, error) {
	if err := validateID(id); err != nil {
		return nil, NewTaskServiceError(ErrUpdateTask, "update_task", "invalid id", err)
	}

	update := domain.TaskUpdate{
		Description: params.Description,
		UpdatedAt:   s.opts.clock(),
	}
	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		update.Title = &title
	}
	if params.Status != nil {
		status, err := domain.ParseTaskStatus(*params.Status)
		if err != nil {
			return nil, NewTaskServiceError(ErrUpdateTask, "update_task", "invalid status", err)
		}
		update.Status = &status
	}
	if err := update.Validate(); err != nil {
		return nil, NewTaskServiceError(ErrUpdateTask, "update_task", "invalid update", err)
	}

	task, err := s.tasks.Update(ctx, id, update.Resolve(s.mode))
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.log(ctx).Error("failed to update task", "error", err, "task_id", id)
		}
		return nil, NewTaskServiceError(ErrUpdateTask, "update_task", "failed to update task", err)
	}

	s.log(ctx).Info("task updated", "task_id", id, "update_mode", string(s.mode))
	return task, nil
}

// Delete implements TaskService.
func (s *taskServiceImpl) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return NewTaskServiceError(ErrDeleteTask, "delete_task", "invalid id", err)
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.log(ctx).Error("failed to delete task", "error", err, "task_id", id)
		}
		return NewTaskServiceError(ErrDeleteTask, "delete_task", "failed to delete task", err)
	}

	s.log(ctx).Info("task deleted", "task_id", id)
	return nil
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("id", "is required", domain.ErrInvalidID)
	}
	return nil
}
