package enrichment

import "context"

// Annotator defines the boundary between the task service and an external
// text-generation service.
type Annotator interface {
	// Annotate sends the fully rendered prompt in a single call and returns
	// the raw generated text. Implementations must not retry.
	Annotate(ctx context.Context, prompt string) (string, error)
}
