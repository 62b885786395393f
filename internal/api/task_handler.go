package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/slate-api/internal/api/shared"
	"github.com/phrazzld/slate-api/internal/platform/logger"
	"github.com/phrazzld/slate-api/internal/service"
)

const (
	taskUpdatedMessage = "Task updated"
	taskDeletedMessage = "Task deleted"
)

// TaskHandler handles the task endpoints.
type TaskHandler struct {
	taskService  service.TaskService
	redactErrors bool
}

// HandlerOption configures a TaskHandler.
type HandlerOption func(*TaskHandler)

// WithRedactedErrors makes 5xx response bodies carry redacted error text.
func WithRedactedErrors(enabled bool) HandlerOption {
	return func(h *TaskHandler) {
		h.redactErrors = enabled
	}
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, opts ...HandlerOption) *TaskHandler {
	h := &TaskHandler{taskService: taskService}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ListTasks handles GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListTasks(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, h.redactErrors)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), slog.Default())

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, invalidRequestFormatMessage, err)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		log.Debug("create task request failed validation", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, service.ErrDescriptionRequired.Error())
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), req.Description)
	if err != nil {
		HandleAPIError(w, r, err, h.redactErrors)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// UpdateTask handles PUT /tasks/{id}. An ID that matches no task still
// yields the generic success response.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), slog.Default())

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, invalidRequestFormatMessage, err)
		return
	}

	id, ok := getPathID(r, "id")
	if !ok {
		log.Debug("non-numeric task id, nothing to update", slog.String("id", chi.URLParam(r, "id")))
		shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: taskUpdatedMessage})
		return
	}

	if _, err := h.taskService.UpdateTaskCompletion(r.Context(), id, bool(req.IsCompleted)); err != nil {
		HandleAPIError(w, r, err, h.redactErrors)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: taskUpdatedMessage})
}

// DeleteTask handles DELETE /tasks/{id}. Deleting a missing task succeeds.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), slog.Default())

	id, ok := getPathID(r, "id")
	if !ok {
		log.Debug("non-numeric task id, nothing to delete", slog.String("id", chi.URLParam(r, "id")))
		shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: taskDeletedMessage})
		return
	}

	if _, err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, h.redactErrors)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: taskDeletedMessage})
}
