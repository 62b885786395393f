package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/slate-api/internal/platform/logger"
	"github.com/phrazzld/slate-api/internal/redact"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// MigrationTableName is the table goose uses to record applied versions.
const MigrationTableName = "schema_migrations"

// goose keeps its dialect, base FS and logger in package globals.
var gooseMu sync.Mutex

// Migration commands accepted by Migrate.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateStatus  = "status"
	MigrateVersion = "version"
	MigrateReset   = "reset"
)

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf forwards goose progress messages at INFO.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at ERROR. It does not exit; the error is returned by goose.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (d Dialect) gooseDialect() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

func (d Dialect) migrationsDir() string {
	return "migrations/" + string(d)
}

// Migrate runs a goose command against the embedded migrations for the
// dialect. "up" is idempotent: it creates the tasks table only when absent.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect, command string) error {
	log := logger.FromContext(ctx).With(
		slog.String("component", "migrations"),
		slog.String("correlation_id", uuid.New().String()),
		slog.String("command", command),
		slog.String("dialect", string(dialect)),
	)

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect(dialect.gooseDialect()); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	dir := dialect.migrationsDir()
	start := time.Now()

	var err error
	switch command {
	case MigrateUp:
		err = goose.UpContext(ctx, db, dir)
		if err == nil && dialect == DialectSQLite {
			err = addAnnotationColumn(ctx, db, log)
		}
	case MigrateDown:
		err = goose.DownContext(ctx, db, dir)
	case MigrateReset:
		// reset reads the version table without creating it
		if _, err = goose.EnsureDBVersionContext(ctx, db); err == nil {
			err = goose.ResetContext(ctx, db, dir)
		}
	case MigrateStatus:
		err = goose.StatusContext(ctx, db, dir)
	case MigrateVersion:
		var version int64
		version, err = goose.GetDBVersionContext(ctx, db)
		if err == nil {
			log.Info("current migration version", slog.Int64("version", version))
		}
	default:
		return fmt.Errorf(
			"unknown migration command: %s (expected up, down, reset, status or version)",
			command,
		)
	}

	if err != nil {
		log.Error("migration command failed",
			slog.String("error", redact.Error(err)),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migration command completed",
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// addAnnotationColumn upgrades a tasks table created without generated_sql.
// The create migration leaves such a table untouched.
func addAnnotationColumn(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info('tasks') WHERE name = 'generated_sql'`).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to inspect tasks table: %w", err)
	}
	if n > 0 {
		return nil
	}

	if _, err := db.ExecContext(ctx, "ALTER TABLE tasks ADD COLUMN generated_sql TEXT"); err != nil {
		return fmt.Errorf("failed to add generated_sql column: %w", err)
	}

	log.Info("added generated_sql column to existing tasks table")
	return nil
}
