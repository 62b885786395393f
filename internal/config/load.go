package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "SLATE"

// legacyEnv maps configuration keys to the unprefixed environment variables
// earlier deployments used.
var legacyEnv = map[string]string{
	"server.port":         "PORT",
	"enrichment.endpoint": "ENRICHMENT_URL",
	"enrichment.api_key":  "GEMINI_API_KEY",
}

// Options controls where Load looks for configuration.
type Options struct {
	// ConfigFile is an optional explicit config file (yaml, json or toml).
	ConfigFile string

	// EnvFile is an optional dotenv file. A missing file is not an error.
	EnvFile string
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.redact_errors", false)
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./tasks.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.busy_timeout_ms", 5000)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("enrichment.enabled", false)
	v.SetDefault("enrichment.provider", "proxy")
	v.SetDefault("enrichment.endpoint", "")
	v.SetDefault("enrichment.api_key", "")
	v.SetDefault("enrichment.model", "gemini-2.0-flash")
	v.SetDefault("enrichment.prompt_template_path", "")
	v.SetDefault("enrichment.timeout_seconds", 0)
}
