// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, so the task service does not depend on
// whether tasks live in an embedded SQLite file or a PostgreSQL server.
package store
