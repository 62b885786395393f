// Package database implements the SQL storage layer behind the store
// interfaces.
//
// It opens either an embedded SQLite file (modernc.org/sqlite) or a
// PostgreSQL server (pgx), applies the embedded goose migrations, and maps
// driver errors onto the store package's sentinel errors. Queries are written
// once with "?" placeholders and rebound per dialect.
package database
