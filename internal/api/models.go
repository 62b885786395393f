package api

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/phrazzld/slate-api/internal/domain"
)

// CreateTaskRequest defines the payload for the create task endpoint.
type CreateTaskRequest struct {
	Description string `json:"description" validate:"required"`
}

// UpdateTaskRequest defines the payload for the update task endpoint.
type UpdateTaskRequest struct {
	IsCompleted CompletionFlag `json:"is_completed"`
}

// CompletionFlag is the loosely typed completion value accepted on update.
// true, a non-zero number, "1" and "true" mean completed; every other
// value, including null and a missing field, means not completed.
type CompletionFlag bool

// UnmarshalJSON implements json.Unmarshaler. It never fails.
func (c *CompletionFlag) UnmarshalJSON(data []byte) error {
	*c = CompletionFlag(parseCompletion(bytes.TrimSpace(data)))
	return nil
}

func parseCompletion(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	switch data[0] {
	case 't':
		return string(data) == "true"
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return false
		}
		return s == "1" || s == "true"
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n, err := strconv.ParseFloat(string(data), 64)
		return err == nil && n != 0
	default:
		return false
	}
}

// TaskResponse is the wire form of a task. is_completed is the integer 0 or 1.
type TaskResponse struct {
	ID           int64   `json:"id"`
	Description  string  `json:"description"`
	IsCompleted  int     `json:"is_completed"`
	GeneratedSQL *string `json:"generated_sql,omitempty"`
}

// MessageResponse is the generic success body for update and delete.
type MessageResponse struct {
	Message string `json:"message"`
}

// taskToResponse converts a domain task to its wire form.
func taskToResponse(task *domain.Task) TaskResponse {
	completed := 0
	if task.IsCompleted {
		completed = 1
	}

	return TaskResponse{
		ID:           task.ID,
		Description:  task.Description,
		IsCompleted:  completed,
		GeneratedSQL: task.GeneratedSQL,
	}
}

// tasksToResponse converts a list of tasks, never returning nil so the
// empty list encodes as [].
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}
