package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/slate-api/internal/domain"
	"github.com/phrazzld/slate-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
//
// Without function overrides it behaves like a small in-memory store: IDs are
// assigned from 1 and never reused, List returns newest first.
type MockTaskStore struct {
	ListFn             func(ctx context.Context) ([]*domain.Task, error)
	CreateFn           func(ctx context.Context, task *domain.Task) error
	UpdateCompletionFn func(ctx context.Context, id int64, completed bool) (int64, error)
	DeleteFn           func(ctx context.Context, id int64) (int64, error)

	mu     sync.Mutex
	tasks  []*domain.Task
	nextID int64

	// CreateCalls counts calls to Create, including failed ones
	CreateCalls int
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// List implements store.TaskStore.List
func (m *MockTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.Task, 0, len(m.tasks))
	for i := len(m.tasks) - 1; i >= 0; i-- {
		copied := *m.tasks[i]
		out = append(out, &copied)
	}
	return out, nil
}

// Create implements store.TaskStore.Create
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()

	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	if err := task.Validate(); err != nil {
		return store.NewStoreError("task", "create", "invalid task", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	task.ID = m.nextID
	task.IsCompleted = false
	copied := *task
	m.tasks = append(m.tasks, &copied)
	return nil
}

// UpdateCompletion implements store.TaskStore.UpdateCompletion
func (m *MockTaskStore) UpdateCompletion(ctx context.Context, id int64, completed bool) (int64, error) {
	if m.UpdateCompletionFn != nil {
		return m.UpdateCompletionFn(ctx, id, completed)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, task := range m.tasks {
		if task.ID == id {
			task.IsCompleted = completed
			return 1, nil
		}
	}
	return 0, nil
}

// Delete implements store.TaskStore.Delete
func (m *MockTaskStore) Delete(ctx context.Context, id int64) (int64, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, task := range m.tasks {
		if task.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// Len returns the number of stored tasks.
func (m *MockTaskStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
