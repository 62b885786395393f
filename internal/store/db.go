package store

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB used by store implementations.
// *sql.Tx satisfies it as well, so a store can be pointed at a transaction
// in tests without changing its queries.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
