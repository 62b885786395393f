package domain

// AnnotationUnavailable is the annotation stored when enrichment does not
// apply to a task or the enrichment call fails.
const AnnotationUnavailable = "N/A"

// Task is a persisted to-do item.
//
// ID is assigned by the store on creation and never changes. Description is
// fixed at creation. GeneratedSQL is only set when enrichment is enabled and
// is never updated after the task is stored.
type Task struct {
	ID           int64   `json:"id"`
	Description  string  `json:"description"`
	IsCompleted  bool    `json:"is_completed"`
	GeneratedSQL *string `json:"generated_sql,omitempty"`
}

// NewTask creates an unsaved, incomplete Task with the given description.
// Returns a ValidationError wrapping ErrEmptyDescription if the description is empty.
func NewTask(description string) (*Task, error) {
	task := &Task{
		Description: description,
		IsCompleted: false,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the invariants that hold for every task.
func (t *Task) Validate() error {
	if t.Description == "" {
		return NewValidationError("description", "cannot be empty", ErrEmptyDescription)
	}
	if t.ID < 0 {
		return NewValidationError("id", "cannot be negative", ErrInvalidID)
	}
	return nil
}

// SetAnnotation records the enrichment result. It is called once, before the
// task is stored.
func (t *Task) SetAnnotation(annotation string) {
	t.GeneratedSQL = &annotation
}

// HasAnnotation reports whether the task carries an enrichment result.
func (t *Task) HasAnnotation() bool {
	return t.GeneratedSQL != nil
}
