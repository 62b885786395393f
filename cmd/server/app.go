package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/slate-api/internal/config"
	"github.com/phrazzld/slate-api/internal/enrichment"
	"github.com/phrazzld/slate-api/internal/platform/database"
	"github.com/phrazzld/slate-api/internal/platform/gemini"
	"github.com/phrazzld/slate-api/internal/platform/proxy"
	"github.com/phrazzld/slate-api/internal/redact"
	"github.com/phrazzld/slate-api/internal/service"
	"github.com/phrazzld/slate-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskStore   store.TaskStore
	enricher    *enrichment.Enricher
	taskService service.TaskService
}

// newApplication creates a new application instance with all dependencies initialized.
// The database handle must already be open; cleanup closes it.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	dialect database.Dialect,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.taskStore = database.NewTaskStore(db, dialect, logger)

	annotator, err := newAnnotator(ctx, cfg.Enrichment, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize enrichment client: %w", err)
	}

	prompt, err := enrichment.LoadPrompt(cfg.Enrichment.PromptTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrichment prompt: %w", err)
	}

	app.enricher = enrichment.NewEnricher(
		annotator,
		prompt,
		time.Duration(cfg.Enrichment.TimeoutSeconds)*time.Second,
		logger,
	)

	if cfg.Enrichment.Enabled && !app.enricher.Configured() {
		logger.Warn("enrichment is enabled but no endpoint is configured; task creation will fail",
			slog.String("provider", cfg.Enrichment.Provider))
	}

	app.taskService, err = service.NewTaskService(app.taskStore, app.enricher, cfg.Enrichment.Enabled, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("application initialized",
		slog.Bool("enrichment_enabled", cfg.Enrichment.Enabled),
		slog.Bool("enrichment_configured", app.enricher.Configured()))
	return app, nil
}

// newAnnotator builds the text-generation client selected by cfg.Provider.
// It returns a nil Annotator when the provider lacks the settings it needs;
// the enricher then reports itself as not configured. Every provider needs
// an endpoint, gemini additionally an API key.
func newAnnotator(ctx context.Context, cfg config.EnrichmentConfig, logger *slog.Logger) (enrichment.Annotator, error) {
	switch cfg.Provider {
	case "gemini":
		if cfg.Endpoint == "" || cfg.APIKey == "" {
			return nil, nil
		}
		return gemini.New(ctx, gemini.Config{
			Endpoint:   cfg.Endpoint,
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			HTTPClient: &http.Client{},
		}, logger)

	case "proxy", "":
		if cfg.Endpoint == "" {
			return nil, nil
		}
		return proxy.New(cfg.Endpoint, &http.Client{}, logger)

	default:
		return nil, fmt.Errorf("%w: unknown enrichment provider %q", enrichment.ErrInvalidConfig, cfg.Provider)
	}
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", redact.Error(err)))
		}
	}

	app.logger.Info("application shutdown completed")
}
