package enrichment

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"
)

//go:embed prompt.tmpl
var defaultPromptTemplate string

// promptData is the value the prompt template is executed with.
type promptData struct {
	Description string
}

// Prompt renders the instruction sent to the text-generation service.
type Prompt struct {
	tmpl *template.Template
}

// DefaultPrompt returns the built-in prompt.
func DefaultPrompt() *Prompt {
	return &Prompt{tmpl: template.Must(template.New("enrichment").Parse(defaultPromptTemplate))}
}

// LoadPrompt reads a prompt template from path. An empty path selects the
// built-in prompt.
func LoadPrompt(path string) (*Prompt, error) {
	if path == "" {
		return DefaultPrompt(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
			ErrInvalidConfig, path, err)
	}

	tmpl, err := template.New("enrichment").Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", ErrInvalidConfig, err)
	}

	return &Prompt{tmpl: tmpl}, nil
}

// Render executes the template for a task description.
func (p *Prompt) Render(description string) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, promptData{Description: description}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
