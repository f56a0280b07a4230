package dynamodb

import (
	"fmt"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// taskItem is the persisted shape of a task. Timestamps are RFC 3339
// strings so the table stays readable from the console and other clients.
type taskItem struct {
	ID          string `dynamodbav:"id"`
	Title       string `dynamodbav:"title"`
	Description string `dynamodbav:"description"`
	Status      string `dynamodbav:"status"`
	CreatedAt   string `dynamodbav:"createdAt"`
	UpdatedAt   string `dynamodbav:"updatedAt"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func newTaskItem(t *domain.Task) taskItem {
	return taskItem{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
	}
}

func (i taskItem) toDomain() (*domain.Task, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid createdAt %q: %w", i.CreatedAt, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, i.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updatedAt %q: %w", i.UpdatedAt, err)
	}
	return &domain.Task{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Status:      domain.TaskStatus(i.Status),
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   updatedAt.UTC(),
	}, nil
}
