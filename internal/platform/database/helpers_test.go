package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/phrazzld/slate-api/internal/config"
	"github.com/stretchr/testify/require"
)

// openDB opens an empty sqlite database in a per-test directory.
func openDB(t *testing.T) *sql.DB {
	t.Helper()

	db, dialect, err := Open(context.Background(), config.DatabaseConfig{
		Driver:        "sqlite",
		DSN:           filepath.Join(t.TempDir(), "tasks.db"),
		MaxOpenConns:  4,
		MaxIdleConns:  2,
		BusyTimeoutMS: 5000,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.Equal(t, DialectSQLite, dialect)
	return db
}

func openMigratedDB(t *testing.T) *sql.DB {
	t.Helper()

	db := openDB(t)
	require.NoError(t, Migrate(context.Background(), db, DialectSQLite, MigrateUp))
	return db
}

func countTasks(t *testing.T, db *sql.DB) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM tasks").Scan(&n))
	return n
}
