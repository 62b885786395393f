package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/slate-api/internal/enrichment"
	"github.com/phrazzld/slate-api/internal/platform/logger"
	"google.golang.org/genai"
)

// Config holds what the annotator needs to reach the model.
type Config struct {
	// Endpoint is used as the client's base URL. Empty selects the public API.
	Endpoint string

	APIKey string
	Model  string

	// HTTPClient is optional; nil lets genai build its own.
	HTTPClient *http.Client
}

// Annotator generates annotations with a Gemini model.
type Annotator struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

var _ enrichment.Annotator = (*Annotator)(nil)

// New creates an Annotator. It validates the configuration and builds the
// genai client; no request is made.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Annotator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", enrichment.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", enrichment.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.Endpoint != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", enrichment.ErrInvalidConfig, err)
	}

	return &Annotator{
		client: client,
		model:  cfg.Model,
		logger: logger.With(slog.String("component", "gemini_annotator"), slog.String("model", cfg.Model)),
	}, nil
}

// Annotate implements enrichment.Annotator with a single GenerateContent call.
func (a *Annotator) Annotate(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)
	log.Debug("calling Gemini", slog.Int("prompt_length", len(prompt)))

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", enrichment.ErrAnnotationFailed, err)
	}

	return extractText(resp)
}

// extractText returns the concatenated non-thought text parts of the first
// candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", enrichment.ErrInvalidResponse)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", enrichment.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", fmt.Errorf("%w: no candidates", enrichment.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", enrichment.ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: candidate has no content", enrichment.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}

	if b.Len() == 0 {
		return "", enrichment.ErrEmptyAnnotation
	}
	return b.String(), nil
}
