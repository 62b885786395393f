package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/slate-api/internal/domain"
	"github.com/phrazzld/slate-api/internal/platform/logger"
	"github.com/phrazzld/slate-api/internal/redact"
	"github.com/phrazzld/slate-api/internal/store"
)

// Enricher produces the annotation stored with a new task.
// *enrichment.Enricher satisfies it.
type Enricher interface {
	// Configured reports whether a text-generation endpoint is available.
	Configured() bool

	// Enrich returns the annotation for description. It never fails.
	Enrich(ctx context.Context, description string) string
}

// UpdateResult reports the effect of an update or delete. A request that
// matched no task still succeeds; RowsAffected is zero in that case.
type UpdateResult struct {
	RowsAffected int64
}

// Found reports whether the operation matched a task.
func (r UpdateResult) Found() bool {
	return r.RowsAffected > 0
}

// TaskService provides task-related operations
type TaskService interface {
	// ListTasks returns every task, newest first.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// CreateTask validates the description, runs enrichment when enabled,
	// and stores a new incomplete task.
	CreateTask(ctx context.Context, description string) (*domain.Task, error)

	// UpdateTaskCompletion sets the completion flag of a task.
	UpdateTaskCompletion(ctx context.Context, id int64, completed bool) (UpdateResult, error)

	// DeleteTask removes a task. Deleting a missing task is not an error.
	DeleteTask(ctx context.Context, id int64) (UpdateResult, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks             store.TaskStore
	enricher          Enricher
	enrichmentEnabled bool
	logger            *slog.Logger
}

// NewTaskService creates a new TaskService.
// The enricher is only consulted when enrichmentEnabled is true and may be nil otherwise.
func NewTaskService(
	tasks store.TaskStore,
	enricher Enricher,
	enrichmentEnabled bool,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "task store cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:             tasks,
		enricher:          enricher,
		enrichmentEnabled: enrichmentEnabled,
		logger:            logger.With(slog.String("component", "task_service")),
	}, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", redact.Error(err)))
		return nil, NewTaskServiceError("list_tasks", "failed to retrieve tasks", err)
	}

	return tasks, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, description string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(description)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyDescription) {
			log.Debug("rejected task without description")
			return nil, ErrDescriptionRequired
		}
		return nil, NewTaskServiceError("create_task", "invalid task", err)
	}

	if s.enrichmentEnabled {
		if s.enricher == nil || !s.enricher.Configured() {
			log.Error("enrichment enabled without a configured endpoint")
			return nil, ErrEnrichmentNotConfigured
		}
		task.SetAnnotation(s.enricher.Enrich(ctx, description))
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to store task", slog.String("error", redact.Error(err)))
		return nil, NewTaskServiceError("create_task", "failed to store task", err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Bool("annotated", task.HasAnnotation()))
	return task, nil
}

// UpdateTaskCompletion implements TaskService.UpdateTaskCompletion
func (s *taskServiceImpl) UpdateTaskCompletion(
	ctx context.Context,
	id int64,
	completed bool,
) (UpdateResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	affected, err := s.tasks.UpdateCompletion(ctx, id, completed)
	if err != nil {
		log.Error("failed to update task completion",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return UpdateResult{}, NewTaskServiceError("update_task", "failed to update task", err)
	}

	result := UpdateResult{RowsAffected: affected}
	if !result.Found() {
		log.Debug("completion update matched no task", slog.Int64("task_id", id))
	}
	return result, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) (UpdateResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	affected, err := s.tasks.Delete(ctx, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return UpdateResult{}, NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	result := UpdateResult{RowsAffected: affected}
	if !result.Found() {
		log.Debug("delete matched no task", slog.Int64("task_id", id))
	}
	return result, nil
}
