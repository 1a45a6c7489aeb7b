package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "migrations", cfg.Database.MigrationsDir)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Empty(t, cfg.NATS.URL)
	assert.False(t, cfg.Ingestion.RateLimitEnabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
  read_timeout: 10s
redis:
  url: redis://localhost:6379/0
  cache_ttl: 30s
ingestion:
  rate_limit_enabled: true
  rate_limit_requests: 50
  rate_limit_window: 10s
audit:
  signing_secret: super-secret
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.True(t, cfg.Ingestion.RateLimitEnabled)
	assert.Equal(t, 50, cfg.Ingestion.RateLimitRequests)
	assert.Equal(t, 10*time.Second, cfg.Ingestion.RateLimitWindow)
	assert.Equal(t, "super-secret", cfg.Audit.SigningSecret)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
