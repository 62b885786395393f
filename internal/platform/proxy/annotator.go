package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/phrazzld/slate-api/internal/enrichment"
	"github.com/phrazzld/slate-api/internal/platform/logger"
	"github.com/phrazzld/slate-api/internal/redact"
)

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 1 << 20

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text *string `json:"text"`
}

// Annotator sends prompts to a JSON text-generation proxy.
type Annotator struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

var _ enrichment.Annotator = (*Annotator)(nil)

// New creates an Annotator for endpoint. A nil client uses http.DefaultClient.
func New(endpoint string, client *http.Client, logger *slog.Logger) (*Annotator, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("%w: proxy endpoint cannot be empty", enrichment.ErrInvalidConfig)
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Annotator{
		endpoint: endpoint,
		client:   client,
		logger:   logger.With(slog.String("component", "proxy_annotator")),
	}, nil
}

// Annotate implements enrichment.Annotator. It makes exactly one request.
func (a *Annotator) Annotate(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	payload, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode request: %v", enrichment.ErrAnnotationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: failed to build request: %v", enrichment.ErrAnnotationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Debug("calling text-generation proxy", slog.Int("prompt_length", len(prompt)))

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", enrichment.ErrAnnotationFailed, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("failed to close proxy response body", slog.String("error", redact.Error(closeErr)))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", enrichment.ErrAnnotationFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: proxy returned status %d", enrichment.ErrAnnotationFailed, resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("%w: %v", enrichment.ErrInvalidResponse, err)
	}
	if decoded.Text == nil {
		return "", fmt.Errorf("%w: missing text field", enrichment.ErrInvalidResponse)
	}
	if *decoded.Text == "" {
		return "", enrichment.ErrEmptyAnnotation
	}

	return *decoded.Text, nil
}
