// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

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
  - DI-Friendly: Passed to core components (DB, Redis, token signer) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// DefaultSessionSecret is the development-only signing fallback used when
// SESSION_SECRET is unset. Production refuses to start with it.
const DefaultSessionSecret = "your-secret-key"

// ErrInsecureSessionSecret is returned by [Load] in production when the
// signing secret is missing or equal to [DefaultSessionSecret].
var ErrInsecureSessionSecret = errors.New("config: SESSION_SECRET must be set to a non-default value in production")

// # Configuration Schema

// Config holds all runtime configuration for the PortfolioHub API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Empty disables the login throttle.
	RedisURL string `env:"REDIS_URL"`

	// HS256 signing secret for session tokens.
	SessionSecret string `env:"SESSION_SECRET"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Observability
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	sessionSecretIsDefault bool
}

// # Configuration Loading

// Load parses the process environment into a [Config] struct.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom parses the given key/value pairs instead of the process
// environment. Intended for tests and tooling.
func LoadFrom(environment map[string]string) (*Config, error) {
	return load(env.Options{Environment: environment})
}

func load(options env.Options) (*Config, error) {
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.ParseWithOptions(cfg, options); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)

	secret := strings.TrimSpace(cfg.SessionSecret)
	if secret == "" || secret == DefaultSessionSecret {
		if cfg.IsProduction() {
			return nil, ErrInsecureSessionSecret
		}
		secret = DefaultSessionSecret
		cfg.sessionSecretIsDefault = true
	}
	cfg.SessionSecret = secret

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SessionSecretIsDefault reports whether the development fallback secret is
// in use. Callers should warn loudly when it is.
func (c *Config) SessionSecretIsDefault() bool {
	return c.sessionSecretIsDefault
}

// RedisEnabled reports whether a Redis URL was configured.
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.RedisURL) != ""
}

func normalizeOrigins(origins []string) []string {
	cleaned := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" {
			cleaned = append(cleaned, origin)
		}
	}
	return cleaned
}
