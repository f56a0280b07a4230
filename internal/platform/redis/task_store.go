// Package redis implements store.TaskStore on Redis. Each task is a JSON
// string under <prefix>task:<id>, and the set <prefix>task_ids indexes the
// ids so List never has to SCAN the keyspace.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

const componentName = "redis_task_store"

// TaskStore implements store.TaskStore on a Redis client.
type TaskStore struct {
	client goredis.UniversalClient
	prefix string
	logger *slog.Logger
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a TaskStore whose keys all start with prefix.
func NewTaskStore(client goredis.UniversalClient, prefix string, logger *slog.Logger) (*TaskStore, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		client: client,
		prefix: prefix,
		logger: logger.With(slog.String("component", componentName)),
	}, nil
}

func (s *TaskStore) taskKey(id string) string {
	return s.prefix + "task:" + id
}

func (s *TaskStore) indexKey() string {
	return s.prefix + "task_ids"
}

// Create implements store.TaskStore.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	log := logger.FromContextForComponent(ctx, s.logger, componentName)

	payload, err := json.Marshal(task)
	if err != nil {
		return nil, store.PersistenceError("task", "create", err)
	}

	// SADD of an id that is already indexed is a no-op, so a duplicate
	// create leaves the index unchanged.
	var created *goredis.BoolCmd
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		created = pipe.SetNX(ctx, s.taskKey(task.ID), payload, 0)
		pipe.SAdd(ctx, s.indexKey(), task.ID)
		return nil
	})
	if err != nil {
		log.Error("failed to write task",
			slog.String("task_id", task.ID),
			slog.String("error", err.Error()))
		return nil, store.PersistenceError("task", "create", err)
	}
	if !created.Val() {
		log.Warn("task id already exists", slog.String("task_id", task.ID))
		return nil, store.ErrDuplicate
	}

	log.Debug("task created", slog.String("task_id", task.ID))
	return task, nil
}

// List implements store.TaskStore. Index entries whose value has vanished
// are skipped.
func (s *TaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextForComponent(ctx, s.logger, componentName)

	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		log.Error("failed to read task index", slog.String("error", err.Error()))
		return nil, store.PersistenceError("task", "list", err)
	}

	tasks := make([]*domain.Task, 0, len(ids))
	if len(ids) == 0 {
		return tasks, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.taskKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		log.Error("failed to read tasks", slog.String("error", err.Error()))
		return nil, store.PersistenceError("task", "list", err)
	}

	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			log.Warn("indexed task has no value", slog.String("task_id", ids[i]))
			continue
		}
		task, err := decodeTask(raw)
		if err != nil {
			return nil, store.PersistenceError("task", "list", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	log := logger.FromContextForComponent(ctx, s.logger, componentName)

	raw, err := s.client.Get(ctx, s.taskKey(id)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("task_id", id),
			slog.String("error", err.Error()))
		return nil, store.PersistenceError("task", "get", err)
	}

	task, err := decodeTask(raw)
	if err != nil {
		return nil, store.PersistenceError("task", "get", err)
	}
	return task, nil
}

// Update implements store.TaskStore with WATCH/MULTI so a concurrent writer
// cannot be overwritten with stale fields. Losing that race is reported as
// a persistence error.
func (s *TaskStore) Update(ctx context.Context, id string, update domain.TaskUpdate) (*domain.Task, error) {
	log := logger.FromContextForComponent(ctx, s.logger, componentName)
	key := s.taskKey(id)

	var updated *domain.Task
	txf := func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if err != nil {
			return err
		}
		task, err := decodeTask(raw)
		if err != nil {
			return err
		}
		update.ApplyTo(task)

		payload, err := json.Marshal(task)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		if err == nil {
			updated = task
		}
		return err
	}

	if err := s.client.Watch(ctx, txf, key); err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("task_id", id),
			slog.String("error", err.Error()))
		return nil, store.PersistenceError("task", "update", err)
	}

	log.Debug("task updated", slog.String("task_id", id))
	return updated, nil
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextForComponent(ctx, s.logger, componentName)

	var del *goredis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		del = pipe.Del(ctx, s.taskKey(id))
		pipe.SRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		log.Error("failed to delete task",
			slog.String("task_id", id),
			slog.String("error", err.Error()))
		return store.PersistenceError("task", "delete", err)
	}
	if del.Val() == 0 {
		return store.ErrTaskNotFound
	}

	log.Debug("task deleted", slog.String("task_id", id))
	return nil
}

func decodeTask(raw string) (*domain.Task, error) {
	var task domain.Task
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		return nil, err
	}
	return &task, nil
}
