package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// The API layer maps these to HTTP status codes.
var (
	// ErrDescriptionRequired is returned when a task is created without a
	// description. API layer should map this to HTTP 400 Bad Request.
	ErrDescriptionRequired = errors.New("Description is required.") //nolint:staticcheck // client-facing text

	// ErrEnrichmentNotConfigured is returned when enrichment is enabled but no
	// text-generation endpoint is available. API layer should map this to
	// HTTP 500 Internal Server Error.
	ErrEnrichmentNotConfigured = errors.New("enrichment is enabled but no text-generation endpoint is configured")
)

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "delete_task")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// It returns known sentinel errors directly without wrapping.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrDescriptionRequired) {
		return ErrDescriptionRequired
	}
	if errors.Is(err, ErrEnrichmentNotConfigured) {
		return ErrEnrichmentNotConfigured
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
