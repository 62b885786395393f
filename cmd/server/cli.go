package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/slate-api/internal/config"
	"github.com/phrazzld/slate-api/internal/platform/database"
	"github.com/phrazzld/slate-api/internal/platform/logger"
	"github.com/phrazzld/slate-api/internal/redact"
	"github.com/urfave/cli/v3"
)

// flags holds the global command line options.
type flags struct {
	ConfigFile string
	EnvFile    string
	LogLevel   string
}

// newCLI builds the slate command tree. Running it without a subcommand
// starts the server.
func newCLI() *cli.Command {
	f := &flags{}

	serve := &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServe(ctx, f)
		},
	}

	return &cli.Command{
		Name:      "slate",
		Usage:     "Task-list API with optional SQL enrichment",
		UsageText: "slate [global options] [serve | migrate <command>]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to a config file (yaml, json or toml)",
				Sources:     cli.EnvVars("SLATE_CONFIG"),
				Destination: &f.ConfigFile,
			},
			&cli.StringFlag{
				Name:        "env-file",
				Usage:       "path to a dotenv file loaded before the environment is read",
				Value:       ".env",
				Destination: &f.EnvFile,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "override server.log_level (debug, info, warn, error)",
				Destination: &f.LogLevel,
			},
		},
		Commands: []*cli.Command{
			serve,
			newMigrateCmd(f),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() > 0 {
				return fmt.Errorf("unknown command %q. Run 'slate --help' for usage", c.Args().First())
			}
			return runServe(ctx, f)
		},
	}
}

// newMigrateCmd builds the migrate subcommands.
func newMigrateCmd(f *flags) *cli.Command {
	sub := func(name, usage string) *cli.Command {
		return &cli.Command{
			Name:  name,
			Usage: usage,
			Action: func(ctx context.Context, c *cli.Command) error {
				return runMigrate(ctx, f, name)
			},
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			sub(database.MigrateUp, "Apply all pending migrations"),
			sub(database.MigrateDown, "Roll back the most recent migration"),
			sub(database.MigrateReset, "Roll back every applied migration"),
			sub(database.MigrateStatus, "Show the status of every migration"),
			sub(database.MigrateVersion, "Print the current schema version"),
		},
	}
}

// loadConfig reads configuration and installs the process logger.
func loadConfig(f *flags) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(config.Options{ConfigFile: f.ConfigFile, EnvFile: f.EnvFile})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if f.LogLevel != "" {
		cfg.Server.LogLevel = f.LogLevel
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Bool("enrichment_enabled", cfg.Enrichment.Enabled),
		slog.String("enrichment_provider", cfg.Enrichment.Provider))

	return cfg, log, nil
}

func runServe(ctx context.Context, f *flags) error {
	cfg, log, err := loadConfig(f)
	if err != nil {
		return err
	}
	ctx = logger.WithLogger(ctx, log)

	db, dialect, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, log, db, dialect)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close database", slog.String("error", redact.Error(closeErr)))
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

func runMigrate(ctx context.Context, f *flags, command string) error {
	cfg, log, err := loadConfig(f)
	if err != nil {
		return err
	}
	ctx = logger.WithLogger(ctx, log)

	db, dialect, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", slog.String("error", redact.Error(err)))
		}
	}()

	return database.Migrate(ctx, db, dialect, command)
}
