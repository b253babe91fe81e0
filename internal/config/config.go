// Package config provides centralized configuration management for the ETL job.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database DatabaseConfig
	Source   SourceConfig
	Load     LoadConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 4).
	// A single-shot batch job needs very few connections.
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// ConnectTimeout is the maximum duration to wait for the initial
	// connection and ping (default: 10s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`
}

// SourceConfig holds record source settings.
type SourceConfig struct {
	// Type selects the record source: "fixture" or "file" (default: fixture)
	Type string `env:"SOURCE_TYPE" default:"fixture"`

	// Path is the CSV file to read when Type is "file"
	Path string `env:"SOURCE_FILE" default:"data/inventory.csv"`
}

// LoadConfig holds upsert loader settings.
type LoadConfig struct {
	// WarrantyMonths is the warranty period assigned to new products (default: 12)
	WarrantyMonths int `env:"LOAD_WARRANTY_MONTHS" default:"12"`

	// DefaultLookupID is the category/supplier id substituted when a name
	// is not found in the lookup tables (default: 1)
	DefaultLookupID int `env:"LOAD_DEFAULT_LOOKUP_ID" default:"1"`

	// MaxStockFactor computes the default maximum stock as
	// factor * minimum stock when the source does not supply one (default: 4)
	MaxStockFactor int `env:"LOAD_MAX_STOCK_FACTOR" default:"4"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
