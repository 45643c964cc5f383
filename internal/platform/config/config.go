// Copyright (c) 2026 NovelHub. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (store, token codec) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store driver names accepted in STORE_DRIVER.
const (
	// DriverFile backs users, sessions, and content with JSON collection
	// files under DATA_DIR. The default, dependency-free mode.
	DriverFile = "file"

	// DriverPostgres backs users and sessions with PostgreSQL plus a Redis
	// session-liveness cache. Content collections stay file-backed.
	DriverPostgres = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the NovelHub API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Identity storage driver: "file" or "postgres".
	StoreDriver string `env:"STORE_DRIVER" envDefault:"file"`

	// DataDir is the directory holding the JSON collection files.
	DataDir string `env:"DATA_DIR" envDefault:"./data"`

	// Relational Database (PostgreSQL) — required for the postgres driver.
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis) — required for the postgres driver.
	RedisURL string `env:"REDIS_URL"`

	// JWTSecret signs bearer tokens (HS256). Immutable for the process lifetime.
	JWTSecret string `env:"JWT_SECRET,required"`

	// SessionTTLSeconds is the lifetime of issued sessions. Default 7 days.
	SessionTTLSeconds int `env:"SESSION_TTL_SECONDS" envDefault:"604800"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces cross-field constraints that struct tags cannot express.
func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverFile:
		// DATA_DIR has a default; nothing more to check.
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required when STORE_DRIVER=postgres")
		}
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q (want %q or %q)", c.StoreDriver, DriverFile, DriverPostgres)
	}

	if c.SessionTTLSeconds <= 0 {
		return fmt.Errorf("config: SESSION_TTL_SECONDS must be positive")
	}

	return nil
}

// SessionTTL returns the configured session lifetime as a [time.Duration].
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
