package database

import (
	"context"
	"testing"

	"github.com/phrazzld/slate-api/internal/domain"
	"github.com/phrazzld/slate-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*TaskStore, func() int) {
	t.Helper()
	db := openMigratedDB(t)
	return NewTaskStore(db, DialectSQLite, nil), func() int { return countTasks(t, db) }
}

func mustCreate(t *testing.T, s *TaskStore, description string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(description)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), task))
	return task
}

func TestTaskStoreCreateAndList(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tasks, "an empty store lists an empty slice")
	assert.Empty(t, tasks)

	first := mustCreate(t, s, "buy milk")
	second := mustCreate(t, s, "walk dog")

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	tasks, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "walk dog", tasks[0].Description, "newest task first")
	assert.Equal(t, "buy milk", tasks[1].Description)
	assert.False(t, tasks[1].IsCompleted)
	assert.Nil(t, tasks[1].GeneratedSQL)
}

func TestTaskStoreCreateWithAnnotation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	task, err := domain.NewTask("list users")
	require.NoError(t, err)
	task.SetAnnotation("SELECT * FROM users;")
	require.NoError(t, s.Create(ctx, task))

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].GeneratedSQL)
	assert.Equal(t, "SELECT * FROM users;", *tasks[0].GeneratedSQL)
}

func TestTaskStoreCreateAlwaysIncomplete(t *testing.T) {
	s, _ := newTestStore(t)

	task := &domain.Task{Description: "already done?", IsCompleted: true}
	require.NoError(t, s.Create(context.Background(), task))
	assert.False(t, task.IsCompleted)

	tasks, err := s.List(context.Background())
	require.NoError(t, err)
	assert.False(t, tasks[0].IsCompleted)
}

func TestTaskStoreCreateInvalid(t *testing.T) {
	s, count := newTestStore(t)

	err := s.Create(context.Background(), &domain.Task{})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.ErrorIs(t, err, domain.ErrEmptyDescription)

	var storeErr *store.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "create", storeErr.Operation)
	assert.Equal(t, 0, count())
}

func TestTaskStoreUpdateCompletion(t *testing.T) {
	s, count := newTestStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, "buy milk")

	affected, err := s.UpdateCompletion(ctx, task.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	assert.True(t, tasks[0].IsCompleted)

	affected, err = s.UpdateCompletion(ctx, task.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	tasks, err = s.List(ctx)
	require.NoError(t, err)
	assert.False(t, tasks[0].IsCompleted)

	t.Run("missing id is not an error", func(t *testing.T) {
		affected, err := s.UpdateCompletion(ctx, 999, true)
		require.NoError(t, err)
		assert.Equal(t, int64(0), affected)
		assert.Equal(t, 1, count())
	})
}

func TestTaskStoreDelete(t *testing.T) {
	s, count := newTestStore(t)
	ctx := context.Background()

	keep := mustCreate(t, s, "keep")
	drop := mustCreate(t, s, "drop")

	affected, err := s.Delete(ctx, drop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.Equal(t, 1, count())

	affected, err = s.Delete(ctx, drop.ID)
	require.NoError(t, err, "deleting twice is not an error")
	assert.Equal(t, int64(0), affected)

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, keep.ID, tasks[0].ID)
}

func TestTaskStoreIDsNeverReused(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first := mustCreate(t, s, "one")
	_, err := s.Delete(ctx, first.ID)
	require.NoError(t, err)

	second := mustCreate(t, s, "two")
	assert.Greater(t, second.ID, first.ID)
}

func TestTaskStoreStorageFailure(t *testing.T) {
	db := openMigratedDB(t)
	s := NewTaskStore(db, DialectSQLite, nil)
	require.NoError(t, db.Close())

	_, err := s.List(context.Background())
	require.Error(t, err)

	var storeErr *store.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "task", storeErr.Entity)
	assert.Equal(t, "list", storeErr.Operation)

	_, err = s.Delete(context.Background(), 1)
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "delete", storeErr.Operation)
}

func TestNewTaskStorePanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() { NewTaskStore(nil, DialectSQLite, nil) })
}
