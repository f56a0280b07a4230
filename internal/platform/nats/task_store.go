package nats

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

const taskStoreComponent = "nats_task_store"

// TaskStore implements store.TaskStore on a JetStream key-value bucket.
// Keys are task ids and values are JSON documents.
type TaskStore struct {
	kv     jetstream.KeyValue
	logger *slog.Logger
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a TaskStore over an opened bucket.
func NewTaskStore(kv jetstream.KeyValue, logger *slog.Logger) (*TaskStore, error) {
	if kv == nil {
		return nil, errors.New("key-value bucket cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		kv:     kv,
		logger: logger.With(slog.String("component", taskStoreComponent), slog.String("bucket", kv.Bucket())),
	}, nil
}

// Create implements store.TaskStore.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	log := logger.FromContextForComponent(ctx, s.logger, taskStoreComponent)

	payload, err := json.Marshal(task)
	if err != nil {
		return nil, store.PersistenceError("task", "create", err)
	}

	if _, err := s.kv.Create(ctx, task.ID, payload); err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			log.Warn("task id already exists", slog.String("task_id", task.ID))
			return nil, store.ErrDuplicate
		}
		log.Error("failed to create task",
			slog.String("task_id", task.ID),
			slog.String("error", err.Error()))
		return nil, store.PersistenceError("task", "create", err)
	}

	log.Debug("task created", slog.String("task_id", task.ID))
	return task, nil
}

// List implements store.TaskStore.
func (s *TaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextForComponent(ctx, s.logger, taskStoreComponent)

	lister, err := s.kv.ListKeys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return make([]*domain.Task, 0), nil
		}
		log.Error("failed to list keys", slog.String("error", err.Error()))
		return nil, store.PersistenceError("task", "list", err)
	}
	defer func() { _ = lister.Stop() }()

	tasks := make([]*domain.Task, 0)
	for key := range lister.Keys() {
		entry, err := s.kv.Get(ctx, key)
		if err != nil {
			if isMissing(err) {
				continue
			}
			log.Error("failed to read task",
				slog.String("task_id", key),
				slog.String("error", err.Error()))
			return nil, store.PersistenceError("task", "list", err)
		}
		task, err := decodeTask(entry.Value())
		if err != nil {
			return nil, store.PersistenceError("task", "list", err)
		}
		tasks = append(tasks, task)
	}
	if err := ctx.Err(); err != nil {
		return nil, store.PersistenceError("task", "list", err)
	}

	return tasks, nil
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	entry, err := s.get(ctx, id, "get")
	if err != nil {
		return nil, err
	}
	task, err := decodeTask(entry.Value())
	if err != nil {
		return nil, store.PersistenceError("task", "get", err)
	}
	return task, nil
}

// Update implements store.TaskStore as a compare-and-swap on the entry
// revision. A concurrent writer makes the swap fail with a persistence
// error.
func (s *TaskStore) Update(ctx context.Context, id string, update domain.TaskUpdate) (*domain.Task, error) {
	log := logger.FromContextForComponent(ctx, s.logger, taskStoreComponent)

	entry, err := s.get(ctx, id, "update")
	if err != nil {
		return nil, err
	}
	task, err := decodeTask(entry.Value())
	if err != nil {
		return nil, store.PersistenceError("task", "update", err)
	}
	update.ApplyTo(task)

	payload, err := json.Marshal(task)
	if err != nil {
		return nil, store.PersistenceError("task", "update", err)
	}

	if _, err := s.kv.Update(ctx, id, payload, entry.Revision()); err != nil {
		log.Error("failed to update task",
			slog.String("task_id", id),
			slog.Bool("conflict", errors.Is(err, jetstream.ErrKeyExists)),
			slog.String("error", err.Error()))
		return nil, store.PersistenceError("task", "update", err)
	}

	log.Debug("task updated", slog.String("task_id", id))
	return task, nil
}

// Delete implements store.TaskStore. The delete is conditional on the
// revision that proved the key exists.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextForComponent(ctx, s.logger, taskStoreComponent)

	entry, err := s.get(ctx, id, "delete")
	if err != nil {
		return err
	}

	if err := s.kv.Delete(ctx, id, jetstream.LastRevision(entry.Revision())); err != nil {
		log.Error("failed to delete task",
			slog.String("task_id", id),
			slog.Bool("conflict", errors.Is(err, jetstream.ErrKeyExists)),
			slog.String("error", err.Error()))
		return store.PersistenceError("task", "delete", err)
	}

	log.Debug("task deleted", slog.String("task_id", id))
	return nil
}

func (s *TaskStore) get(ctx context.Context, id, operation string) (jetstream.KeyValueEntry, error) {
	entry, err := s.kv.Get(ctx, id)
	if err != nil {
		if isMissing(err) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContextForComponent(ctx, s.logger, taskStoreComponent).Error("failed to get task",
			slog.String("task_id", id),
			slog.String("error", err.Error()))
		return nil, store.PersistenceError("task", operation, err)
	}
	return entry, nil
}

// isMissing treats ids that cannot be valid keys as absent rather than as
// backend failures.
func isMissing(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound) ||
		errors.Is(err, jetstream.ErrKeyDeleted) ||
		errors.Is(err, jetstream.ErrInvalidKey)
}

func decodeTask(raw []byte) (*domain.Task, error) {
	var task domain.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, err
	}
	return &task, nil
}
