package testutils

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/slate-api/internal/config"
	"github.com/phrazzld/slate-api/internal/platform/database"
	"github.com/stretchr/testify/require"
)

// TestDBConfig returns a sqlite configuration pointing at a fresh file in a
// per-test temporary directory.
func TestDBConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()

	return config.DatabaseConfig{
		Driver:        string(database.DialectSQLite),
		DSN:           filepath.Join(t.TempDir(), "tasks.db"),
		MaxOpenConns:  4,
		MaxIdleConns:  2,
		BusyTimeoutMS: 5000,
		AutoMigrate:   true,
	}
}

// OpenTestDB opens a migrated sqlite database that is closed when the test ends.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	db, dialect, err := database.Open(ctx, TestDBConfig(t))
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})

	require.NoError(t, database.Migrate(ctx, db, dialect, database.MigrateUp), "Failed to migrate test database")
	return db
}

// NewTestTaskStore returns a TaskStore backed by a fresh migrated database.
func NewTestTaskStore(t *testing.T) (*database.TaskStore, *sql.DB) {
	t.Helper()

	db := OpenTestDB(t)
	return database.NewTaskStore(db, database.DialectSQLite, nil), db
}

// CountTasks returns the number of rows in the tasks table.
func CountTasks(t *testing.T, db *sql.DB) int {
	t.Helper()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM tasks").Scan(&count))
	return count
}

// PostgresTestDBEnv names the variable holding a PostgreSQL URL for
// integration tests. Tests that need it are skipped when it is unset.
const PostgresTestDBEnv = "SLATE_TEST_DB_URL"

// OpenPostgresTestDB opens the PostgreSQL database named by SLATE_TEST_DB_URL
// and resets the schema so identity values start from 1. The schema is rolled
// back again when the test ends. Tests using it must not run in parallel.
func OpenPostgresTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv(PostgresTestDBEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping PostgreSQL integration test", PostgresTestDBEnv)
	}

	ctx := context.Background()
	db, dialect, err := database.Open(ctx, config.DatabaseConfig{
		Driver:       string(database.DialectPostgres),
		DSN:          dsn,
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	})
	require.NoError(t, err, "Failed to open PostgreSQL test database")

	require.NoError(t, database.Migrate(ctx, db, dialect, database.MigrateReset), "Failed to reset schema")
	require.NoError(t, database.Migrate(ctx, db, dialect, database.MigrateUp), "Failed to migrate schema")

	t.Cleanup(func() {
		if err := database.Migrate(ctx, db, dialect, database.MigrateReset); err != nil {
			t.Logf("Warning: failed to roll back test schema: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})

	return db
}
