package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service"
)

const taskHandlerComponent = "task_handler"

// TaskHandler handles the /tasks endpoints.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if tasks == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("task service cannot be nil for TaskHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", taskHandlerComponent)),
	}
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextForComponent(r.Context(), h.logger, taskHandlerComponent)

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	task, err := h.tasks.Create(r.Context(), service.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "", "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, TaskResponse{
		Message: "Task created successfully",
		Data:    task,
	})
}

// ListTasks handles GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.List(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "", "Failed to fetch tasks")
		return
	}

	message := "Tasks fetched successfully"
	if len(tasks) == 0 {
		message = "No tasks found"
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Message: message,
		Data:    tasks,
	})
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		respondWithServiceError(w, r, err, "", "")
		return
	}

	task, err := h.tasks.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err,
			fmt.Sprintf("Task not found for id: %s", id),
			"Failed to fetch task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{
		Message: "Task fetched successfully",
		Data:    task,
	})
}

// UpdateTask handles PUT /tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextForComponent(r.Context(), h.logger, taskHandlerComponent)

	id, err := getPathID(r, "id")
	if err != nil {
		respondWithServiceError(w, r, err, "", "")
		return
	}

	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	task, err := h.tasks.Update(r.Context(), id, service.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondWithServiceError(w, r, err,
			fmt.Sprintf("Task not found for id: %s. Unable to update.", id),
			"Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{
		Message: "Task updated successfully",
		Data:    task,
	})
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		respondWithServiceError(w, r, err, "", "")
		return
	}

	if err := h.tasks.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, r, err,
			fmt.Sprintf("Task not found for id: %s. Unable to delete.", id),
			"Failed to delete task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Task with id: %s deleted successfully", id),
	})
}
