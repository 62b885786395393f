// Package config handles configuration loading, parsing, and validation
// from various sources (defaults, config files, dotenv files, environment
// variables). It provides type-safe access to application settings needed by
// the server, the task store and the enrichment step while keeping
// configuration details separate from business logic.
package config
