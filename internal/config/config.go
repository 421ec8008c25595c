// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Password hash schemes accepted by PASSWORD_HASH_SCHEME.
const (
	HashSchemeSHA256   = "sha256"
	HashSchemeArgon2id = "argon2id"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database: postgres://... or sqlite://path / file:path
	DatabaseURL    string `env:"DATABASE_URL,required,notEmpty"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`

	// Optional Redis for a rate limiter shared between instances.
	RedisURL string `env:"REDIS_URL" envDefault:""`

	// Admin surface
	AdminPath           string  `env:"ADMIN_PATH" envDefault:"/admin"`
	PasswordHashScheme  string  `env:"PASSWORD_HASH_SCHEME" envDefault:"sha256"`
	AdminRateLimitRPS   float64 `env:"ADMIN_RATE_LIMIT_RPS" envDefault:"1"`
	AdminRateLimitBurst int     `env:"ADMIN_RATE_LIMIT_BURST" envDefault:"30"`

	// CORS origin sent on every response.
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`

	// Header set by the fronting proxy with the caller's address.
	TrustedIPHeader string `env:"TRUSTED_IP_HEADER" envDefault:"CF-Connecting-IP"`

	// Signup rate limiting (sliding window per client IP)
	SignupRateLimit  int           `env:"SIGNUP_RATE_LIMIT" envDefault:"5"`
	SignupRateWindow time.Duration `env:"SIGNUP_RATE_WINDOW" envDefault:"60s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"false"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Request body size limit in bytes (default 64KB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"65536"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// NormalizedAdminPath returns the admin prefix with a single leading slash
// and no trailing slash.
func (c *Config) NormalizedAdminPath() string {
	p := strings.Trim(strings.TrimSpace(c.AdminPath), "/")
	if p == "" {
		return "/admin"
	}
	return "/" + p
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	switch c.PasswordHashScheme {
	case HashSchemeSHA256, HashSchemeArgon2id:
	default:
		return fmt.Errorf("unsupported PASSWORD_HASH_SCHEME %q", c.PasswordHashScheme)
	}
	if c.SignupRateLimit <= 0 {
		return errors.New("SIGNUP_RATE_LIMIT must be positive")
	}
	if c.SignupRateWindow <= 0 {
		return errors.New("SIGNUP_RATE_WINDOW must be positive")
	}
	if c.NormalizedAdminPath() == "/api" {
		return errors.New("ADMIN_PATH must not shadow /api")
	}
	return nil
}

// Load reads an optional .env file, parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
