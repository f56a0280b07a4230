// Package storetest provides a behavioural test suite shared by every
// store.TaskStore and store.BlobStore implementation.
package storetest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seq atomic.Int64

// NewTask returns a valid pending task with a fresh ID.
func NewTask(t *testing.T, title string) *domain.Task {
	t.Helper()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	task, err := domain.NewTask(domain.NewID(), title, fmt.Sprintf("description %d", seq.Add(1)), now)
	require.NoError(t, err)
	return task
}

// TaskStoreFactory returns an empty store for a single subtest.
type TaskStoreFactory func(t *testing.T) store.TaskStore

// RunTaskStoreTests exercises the TaskStore contract against stores produced
// by newStore. Each subtest gets its own store.
func RunTaskStoreTests(t *testing.T, newStore TaskStoreFactory) {
	t.Helper()
	ctx := context.Background()

	t.Run("list on empty store returns empty slice", func(t *testing.T) {
		s := newStore(t)

		tasks, err := s.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("create then get returns the same task", func(t *testing.T) {
		s := newStore(t)
		task := NewTask(t, "Buy milk")

		created, err := s.Create(ctx, task)
		require.NoError(t, err)
		assertTaskEqual(t, task, created)

		got, err := s.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assertTaskEqual(t, task, got)
	})

	t.Run("create rejects duplicate id", func(t *testing.T) {
		s := newStore(t)
		task := NewTask(t, "Original")

		_, err := s.Create(ctx, task)
		require.NoError(t, err)

		dup := task.Clone()
		dup.Title = "Impostor"
		_, err = s.Create(ctx, dup)
		assert.ErrorIs(t, err, store.ErrDuplicate)

		got, err := s.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", got.Title)
	})

	t.Run("get unknown id returns not found", func(t *testing.T) {
		s := newStore(t)

		_, err := s.GetByID(ctx, domain.NewID())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.NotErrorIs(t, err, store.ErrPersistence)
	})

	t.Run("list returns every task", func(t *testing.T) {
		s := newStore(t)
		want := map[string]*domain.Task{}
		for i := 0; i < 3; i++ {
			task := NewTask(t, fmt.Sprintf("Task %d", i))
			_, err := s.Create(ctx, task)
			require.NoError(t, err)
			want[task.ID] = task
		}

		tasks, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, len(want))
		for _, got := range tasks {
			expected, ok := want[got.ID]
			require.True(t, ok, "unexpected task %s", got.ID)
			assertTaskEqual(t, expected, got)
		}
	})

	t.Run("update applies only supplied fields", func(t *testing.T) {
		s := newStore(t)
		task := NewTask(t, "Buy milk")
		_, err := s.Create(ctx, task)
		require.NoError(t, err)

		status := domain.TaskStatusCompleted
		later := task.UpdatedAt.Add(time.Minute)
		updated, err := s.Update(ctx, task.ID, domain.TaskUpdate{Status: &status, UpdatedAt: later})
		require.NoError(t, err)

		assert.Equal(t, task.ID, updated.ID)
		assert.Equal(t, task.Title, updated.Title)
		assert.Equal(t, task.Description, updated.Description)
		assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
		assert.True(t, task.CreatedAt.Equal(updated.CreatedAt))
		assert.True(t, later.Equal(updated.UpdatedAt))

		got, err := s.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assertTaskEqual(t, updated, got)
	})

	t.Run("update replaces every supplied field", func(t *testing.T) {
		s := newStore(t)
		task := NewTask(t, "Buy milk")
		_, err := s.Create(ctx, task)
		require.NoError(t, err)

		title, description := "Buy bread", ""
		status := domain.TaskStatusInProgress
		updated, err := s.Update(ctx, task.ID, domain.TaskUpdate{
			Title:       &title,
			Description: &description,
			Status:      &status,
			UpdatedAt:   task.UpdatedAt.Add(time.Second),
		})
		require.NoError(t, err)
		assert.Equal(t, "Buy bread", updated.Title)
		assert.Equal(t, "", updated.Description)
		assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
	})

	t.Run("update unknown id returns not found without creating", func(t *testing.T) {
		s := newStore(t)
		id := domain.NewID()
		title := "ghost"

		_, err := s.Update(ctx, id, domain.TaskUpdate{Title: &title, UpdatedAt: time.Now().UTC()})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		_, err = s.GetByID(ctx, id)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("delete removes the task", func(t *testing.T) {
		s := newStore(t)
		task := NewTask(t, "Disposable")
		_, err := s.Create(ctx, task)
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, task.ID))

		_, err = s.GetByID(ctx, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		tasks, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("delete unknown id returns not found", func(t *testing.T) {
		s := newStore(t)

		err := s.Delete(ctx, domain.NewID())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

// BlobStoreFactory returns an empty blob store for a single subtest.
type BlobStoreFactory func(t *testing.T) store.BlobStore

// RunBlobStoreTests exercises the BlobStore contract. fetch reads back the
// content stored under key so the suite can verify the write.
func RunBlobStoreTests(
	t *testing.T,
	newStore BlobStoreFactory,
	fetch func(t *testing.T, s store.BlobStore, key string) []byte,
) {
	t.Helper()
	ctx := context.Background()

	t.Run("put returns a location containing the key", func(t *testing.T) {
		s := newStore(t)
		key := domain.UploadKey("notes.txt", time.UnixMilli(1700000000000))

		location, err := s.Put(ctx, key, []byte("hello"), "text/plain")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(location, key), "location %q should end with %q", location, key)
		assert.Equal(t, []byte("hello"), fetch(t, s, key))
	})

	t.Run("put overwrites an existing key", func(t *testing.T) {
		s := newStore(t)
		key := domain.UploadKey("notes.txt", time.UnixMilli(1700000000001))

		_, err := s.Put(ctx, key, []byte("v1"), "text/plain")
		require.NoError(t, err)
		_, err = s.Put(ctx, key, []byte("v2"), "text/plain")
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), fetch(t, s, key))
	})
}

func assertTaskEqual(t *testing.T, want, got *domain.Task) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Description, got.Description)
	assert.Equal(t, want.Status, got.Status)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "createdAt: want %v, got %v", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updatedAt: want %v, got %v", want.UpdatedAt, got.UpdatedAt)
}
