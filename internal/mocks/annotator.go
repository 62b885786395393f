package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/slate-api/internal/enrichment"
)

// MockAnnotator implements enrichment.Annotator for testing
type MockAnnotator struct {
	// AnnotateFn allows test cases to mock the Annotate behavior
	AnnotateFn func(ctx context.Context, prompt string) (string, error)

	// Default response values
	Text string
	Err  error

	mu      sync.Mutex
	prompts []string
}

var _ enrichment.Annotator = (*MockAnnotator)(nil)

// Annotate implements the enrichment.Annotator interface
func (m *MockAnnotator) Annotate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.AnnotateFn != nil {
		return m.AnnotateFn(ctx, prompt)
	}
	return m.Text, m.Err
}

// Calls returns how many times Annotate was called.
func (m *MockAnnotator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns a copy of every prompt passed to Annotate.
func (m *MockAnnotator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// NewMockAnnotatorWithText creates a MockAnnotator that returns text
func NewMockAnnotatorWithText(text string) *MockAnnotator {
	return &MockAnnotator{Text: text}
}

// NewMockAnnotatorWithError creates a MockAnnotator that returns err
func NewMockAnnotatorWithError(err error) *MockAnnotator {
	return &MockAnnotator{Err: err}
}
