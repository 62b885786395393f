// Package testutils provides helpers shared by package tests: migrated
// SQLite databases in temporary directories and small HTTP request and
// assertion helpers for exercising the API end to end.
package testutils
