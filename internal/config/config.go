package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration, loaded from environment
// variables (a .env file, if present, is loaded by the cmd layer before
// Load is called).
type Config struct {
	Env  string `env:"ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	// DatabaseURL selects the Postgres backend when set; otherwise the
	// SQLite file at DatabasePath is used.
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"votes.db"`

	// CongressAPIKey is only required by commands that fetch.
	CongressAPIKey  string        `env:"CONGRESS_API_KEY"`
	CongressAPIBase string        `env:"CONGRESS_API_BASE_URL" envDefault:"https://api.congress.gov/v3"`
	HTTPTimeout     time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// RequireAPIKey validates that a congress.gov key is configured. Fetching
// is the only operation that needs one.
func (c *Config) RequireAPIKey() error {
	if c.CongressAPIKey == "" {
		return fmt.Errorf("CONGRESS_API_KEY is required")
	}
	return nil
}
