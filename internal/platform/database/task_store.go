package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/slate-api/internal/domain"
	"github.com/phrazzld/slate-api/internal/platform/logger"
	"github.com/phrazzld/slate-api/internal/redact"
	"github.com/phrazzld/slate-api/internal/store"
)

const taskEntity = "task"

const (
	listTasksQuery = `
		SELECT id, description, is_completed, generated_sql
		FROM tasks
		ORDER BY id DESC
	`

	insertTaskQuery = `
		INSERT INTO tasks (description, is_completed, generated_sql)
		VALUES (?, 0, ?)
		RETURNING id
	`

	updateCompletionQuery = `
		UPDATE tasks
		SET is_completed = ?
		WHERE id = ?
	`

	deleteTaskQuery = `
		DELETE FROM tasks
		WHERE id = ?
	`
)

// TaskStore implements the store.TaskStore interface on top of database/sql.
// The same queries serve SQLite and PostgreSQL; placeholders are rebound for
// the configured dialect.
type TaskStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewTaskStore creates a TaskStore. The connection (or transaction) is owned
// by the caller. If logger is nil, a default logger will be used.
func NewTaskStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// List implements store.TaskStore.List.
func (s *TaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(listTasksQuery))
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError(taskEntity, "list", "failed to query tasks", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", redact.Error(closeErr)))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", redact.Error(err)))
			return nil, store.NewStoreError(taskEntity, "list", "failed to scan task", MapError(err))
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError(taskEntity, "list", "failed to read tasks", MapError(err))
	}

	log.Debug("listed tasks", slog.Int("count", len(tasks)))
	return tasks, nil
}

// Create implements store.TaskStore.Create.
// The task is always inserted as incomplete; its ID is set from the store.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create", slog.String("error", redact.Error(err)))
		return store.NewStoreError(
			taskEntity,
			"create",
			"invalid task",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err),
		)
	}

	var generatedSQL sql.NullString
	if task.GeneratedSQL != nil {
		generatedSQL = sql.NullString{String: *task.GeneratedSQL, Valid: true}
	}

	var id int64
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(insertTaskQuery), task.Description, generatedSQL).
		Scan(&id)
	if err != nil {
		log.Error("failed to create task", slog.String("error", redact.Error(err)))
		return store.NewStoreError(taskEntity, "create", "failed to insert task", MapError(err))
	}

	task.ID = id
	task.IsCompleted = false

	log.Info("task created",
		slog.Int64("task_id", id),
		slog.Bool("annotated", task.HasAnnotation()))
	return nil
}

// UpdateCompletion implements store.TaskStore.UpdateCompletion.
func (s *TaskStore) UpdateCompletion(ctx context.Context, id int64, completed bool) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, s.dialect.Rebind(updateCompletionQuery), completionFlag(completed), id)
	if err != nil {
		log.Error("failed to update task completion",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return 0, store.NewStoreError(taskEntity, "update_completion", "failed to update task", MapError(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError(taskEntity, "update_completion", "failed to get rows affected", err)
	}

	log.Debug("task completion updated",
		slog.Int64("task_id", id),
		slog.Bool("is_completed", completed),
		slog.Int64("rows_affected", affected))
	return affected, nil
}

// Delete implements store.TaskStore.Delete.
func (s *TaskStore) Delete(ctx context.Context, id int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, s.dialect.Rebind(deleteTaskQuery), id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return 0, store.NewStoreError(taskEntity, "delete", "failed to delete task", MapError(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError(taskEntity, "delete", "failed to get rows affected", err)
	}

	log.Debug("task deleted",
		slog.Int64("task_id", id),
		slog.Int64("rows_affected", affected))
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task         domain.Task
		completed    int64
		generatedSQL sql.NullString
	)

	if err := row.Scan(&task.ID, &task.Description, &completed, &generatedSQL); err != nil {
		return nil, err
	}

	task.IsCompleted = completed != 0
	if generatedSQL.Valid {
		task.SetAnnotation(generatedSQL.String)
	}
	return &task, nil
}

// completionFlag is the 0/1 integer stored in is_completed.
func completionFlag(completed bool) int {
	if completed {
		return 1
	}
	return 0
}
