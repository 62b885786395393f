package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/slate-api/internal/config"
	"github.com/phrazzld/slate-api/internal/platform/database"
	"github.com/phrazzld/slate-api/internal/redact"
)

// setupAppDatabase opens the configured database and, when auto_migrate is
// set, applies pending migrations so the tasks table exists before the
// server accepts requests.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, database.Dialect, error) {
	db, dialect, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, dialect, database.MigrateUp); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				logger.Error("failed to close database", slog.String("error", redact.Error(closeErr)))
			}
			return nil, "", fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	logger.Info("database ready",
		slog.String("dialect", string(dialect)),
		slog.Bool("auto_migrate", cfg.Database.AutoMigrate))
	return db, dialect, nil
}
