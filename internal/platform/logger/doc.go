// Package logger provides structured logging for the service.
//
// It builds JSON slog loggers at the configured level, carries request-scoped
// loggers through context.Context, and offers buffer-backed helpers for
// asserting on log output in tests.
package logger
