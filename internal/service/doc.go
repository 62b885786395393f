// Package service contains the application-specific use cases and business
// logic. It orchestrates the task store (defined in internal/store) and the
// optional enrichment step (internal/enrichment) to fulfill the task API.
//
// The service layer depends on domain entities and interfaces, never on a
// specific database or text-generation provider. Errors are either
// service-level sentinels that callers check with errors.Is, or
// *TaskServiceError values wrapping an underlying storage failure.
package service
