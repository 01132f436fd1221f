package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "votes.db", cfg.DatabasePath)
	assert.Equal(t, "https://api.congress.gov/v3", cfg.CongressAPIBase)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/rollcall")
	t.Setenv("CONGRESS_API_KEY", "test-key")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "https://one.example,https://two.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://localhost/rollcall", cfg.DatabaseURL)
	assert.Equal(t, "test-key", cfg.CongressAPIKey)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []string{"https://one.example", "https://two.example"}, cfg.CORSOrigins)
}

func TestRequireAPIKey(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.RequireAPIKey())

	cfg.CongressAPIKey = "k"
	assert.NoError(t, cfg.RequireAPIKey())
}
