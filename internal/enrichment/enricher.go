package enrichment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/slate-api/internal/domain"
	"github.com/phrazzld/slate-api/internal/platform/logger"
	"github.com/phrazzld/slate-api/internal/redact"
)

// Enricher produces the annotation stored with a new task.
type Enricher struct {
	annotator Annotator
	prompt    *Prompt
	timeout   time.Duration
	logger    *slog.Logger
}

// NewEnricher creates an Enricher. A nil annotator yields an Enricher that
// reports itself as not configured. A nil prompt selects the built-in prompt;
// a zero timeout leaves the call bounded only by ctx and the transport.
func NewEnricher(annotator Annotator, prompt *Prompt, timeout time.Duration, logger *slog.Logger) *Enricher {
	if prompt == nil {
		prompt = DefaultPrompt()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Enricher{
		annotator: annotator,
		prompt:    prompt,
		timeout:   timeout,
		logger:    logger.With(slog.String("component", "enricher")),
	}
}

// Configured reports whether an annotator is available.
func (e *Enricher) Configured() bool {
	return e != nil && e.annotator != nil
}

// Enrich returns the normalized annotation for description. It never fails:
// every error is logged and mapped to domain.AnnotationUnavailable.
func (e *Enricher) Enrich(ctx context.Context, description string) string {
	log := logger.FromContextOrDefault(ctx, e.logger)

	if !e.Configured() {
		log.Warn("enrichment requested without an annotator")
		return domain.AnnotationUnavailable
	}

	prompt, err := e.prompt.Render(description)
	if err != nil {
		log.Warn("failed to render enrichment prompt", slog.String("error", redact.Error(err)))
		return domain.AnnotationUnavailable
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := e.annotator.Annotate(ctx, prompt)
	duration := time.Since(start)
	if err != nil {
		log.Warn("enrichment call failed, storing sentinel",
			slog.String("error", redact.Error(err)),
			slog.Int64("duration_ms", duration.Milliseconds()))
		return domain.AnnotationUnavailable
	}

	annotation := Normalize(text)
	if annotation == "" {
		log.Warn("enrichment call returned empty text, storing sentinel",
			slog.Int64("duration_ms", duration.Milliseconds()))
		return domain.AnnotationUnavailable
	}

	log.Debug("enrichment call succeeded",
		slog.Int("annotation_length", len(annotation)),
		slog.Int64("duration_ms", duration.Milliseconds()))
	return annotation
}

// Normalize replaces every line break with a single space and trims
// surrounding whitespace.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(text)
}
