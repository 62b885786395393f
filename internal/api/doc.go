// Package api handles incoming HTTP requests for the task list: request
// decoding and validation, translation to service calls, and response
// formatting. Handlers never touch storage directly; they depend on
// service.TaskService.
//
// The wire format is fixed by existing clients. Tasks encode is_completed as
// the integer 0 or 1, update and delete always answer with a generic success
// message, and server errors carry the failure text unless redaction is
// enabled.
package api
