package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// RedactErrors replaces the raw failure text in 5xx response bodies with
	// a redacted version. Off by default so clients keep seeing the same
	// error strings they always have.
	RedactErrors bool `mapstructure:"redact_errors"`

	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver selects the SQL backend: the embedded SQLite file (default)
	// or a PostgreSQL server reached through pgx.
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite postgres"`

	// DSN is a file path for sqlite or a connection URL for postgres.
	DSN string `mapstructure:"dsn" validate:"required"`

	MaxOpenConns  int `mapstructure:"max_open_conns"  validate:"gte=0"`
	MaxIdleConns  int `mapstructure:"max_idle_conns"  validate:"gte=0"`
	BusyTimeoutMS int `mapstructure:"busy_timeout_ms" validate:"gte=0"`

	// AutoMigrate applies pending schema migrations at startup.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// EnrichmentConfig controls the optional annotation step run on task creation.
//
// Endpoint is deliberately not required here: an enabled-but-unconfigured
// enrichment step fails individual create requests, not process startup.
type EnrichmentConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Provider string `mapstructure:"provider" validate:"required,oneof=proxy gemini"`
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`

	// APIKey and Model are only used by the gemini provider.
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`

	// PromptTemplatePath overrides the built-in prompt when set.
	PromptTemplatePath string `mapstructure:"prompt_template_path" validate:"omitempty,file"`

	// TimeoutSeconds bounds a single enrichment call. Zero leaves the
	// transport defaults in place.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gte=0"`
}
