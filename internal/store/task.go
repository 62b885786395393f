package store

import (
	"context"

	"github.com/phrazzld/slate-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// List returns every task ordered by ID descending (newest first).
	// Returns an empty slice when the store holds no tasks.
	List(ctx context.Context) ([]*domain.Task, error)

	// Create validates and inserts a new task with is_completed = false.
	// On success the task's ID is set to the value assigned by the store.
	// Returns ErrInvalidEntity if the task fails validation.
	Create(ctx context.Context, task *domain.Task) error

	// UpdateCompletion sets the completion flag of the task with the given ID
	// and returns the number of rows changed. A missing ID is not an error:
	// it reports zero rows affected.
	UpdateCompletion(ctx context.Context, id int64, completed bool) (int64, error)

	// Delete removes the task with the given ID and returns the number of rows
	// removed. A missing ID is not an error: it reports zero rows affected.
	Delete(ctx context.Context, id int64) (int64, error)
}
