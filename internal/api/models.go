package api

import "github.com/phrazzld/tasks-api/internal/domain"

// CreateTaskRequest defines the payload for POST /tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,notblank"`
	Description string `json:"description"`
}

// UpdateTaskRequest defines the payload for PUT /tasks/{id}. Omitted fields
// are nil.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"       validate:"omitempty,notblank"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"      validate:"omitempty,oneof=pending in-progress completed"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Message string       `json:"message"`
	Data    *domain.Task `json:"data"`
}

// TaskListResponse wraps a list of tasks. Data is never null.
type TaskListResponse struct {
	Message string         `json:"message"`
	Data    []*domain.Task `json:"data"`
}

// MessageResponse carries only a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	Message string `json:"message"`
	FileURL string `json:"fileUrl"`
}
