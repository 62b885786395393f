package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/slate-api/internal/config"
	"github.com/phrazzld/slate-api/internal/platform/logger"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// Dialect identifies the SQL backend a connection talks to.
type Dialect string

const (
	// DialectSQLite is the embedded SQLite file backend.
	DialectSQLite Dialect = "sqlite"

	// DialectPostgres is a PostgreSQL server reached through pgx.
	DialectPostgres Dialect = "postgres"
)

const (
	maxPingRetries  = 5
	initialPingWait = 100 * time.Millisecond
	postgresConnTTL = 5 * time.Minute
)

// ParseDialect maps a configured driver name onto a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch Dialect(strings.ToLower(driver)) {
	case DialectSQLite:
		return DialectSQLite, nil
	case DialectPostgres:
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// driverName returns the database/sql driver registered for the dialect.
func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// Rebind rewrites "?" placeholders into the dialect's native form.
// SQLite accepts "?" as written; PostgreSQL needs "$1", "$2", ...
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// sqliteDSN enables WAL and a busy timeout on a plain file path. A DSN that
// already uses the "file:" URI form is passed through untouched.
func sqliteDSN(path string, busyTimeoutMS int) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)", path, busyTimeoutMS)
}

// Open creates a connection pool for the configured backend and verifies it
// with a ping, retrying with exponential backoff.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, Dialect, error) {
	log := logger.FromContext(ctx).With(slog.String("component", "database"))

	dialect, err := ParseDialect(cfg.Driver)
	if err != nil {
		return nil, "", err
	}

	dsn := cfg.DSN
	if dialect == DialectSQLite {
		dsn = sqliteDSN(cfg.DSN, cfg.BusyTimeoutMS)
	}

	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	if dialect == DialectPostgres {
		db.SetConnMaxLifetime(postgresConnTTL)
	} else {
		db.SetConnMaxLifetime(0)
	}

	if err := pingWithRetry(ctx, db); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("database connection established",
		slog.String("dialect", string(dialect)),
		slog.Int("max_open_conns", cfg.MaxOpenConns))

	return db, dialect, nil
}

func pingWithRetry(ctx context.Context, db *sql.DB) error {
	wait := initialPingWait
	var lastErr error
	for i := 0; i < maxPingRetries; i++ {
		if lastErr = db.PingContext(ctx); lastErr == nil {
			return nil
		}

		if i < maxPingRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}
	}

	return fmt.Errorf("failed to ping database after %d retries: %w", maxPingRetries, lastErr)
}
