package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_SECRET", "test-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "test-secret", cfg.Auth.APISecret)
	assert.Equal(t, 5*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.RateLimit.PublicPerMinute)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadRequiresSecret(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_SECRET")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("API_SECRET", "s")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RATE_LIMIT_PUBLIC", "20")
	t.Setenv("TOKEN_TTL_SECONDS", "120")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://onthisday.app, https://www.onthisday.app")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 20, cfg.RateLimit.PublicPerMinute)
	assert.Equal(t, 2*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"https://onthisday.app", "https://www.onthisday.app"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "redis", cfg.Cache.Backend)
}

func TestLoadYAMLFileWithEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7000
  base_url: https://onthisday.app
auth:
  api_secret: from-file
logging:
  level: debug
`), 0o600))

	t.Setenv("SERVER_PORT", "7500")

	cfg, err := Load(path)
	require.NoError(t, err)

	// Env wins over file; file wins over defaults.
	assert.Equal(t, 7500, cfg.Server.Port)
	assert.Equal(t, "https://onthisday.app", cfg.Server.BaseURL)
	assert.Equal(t, "from-file", cfg.Auth.APISecret)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsBadCacheBackend(t *testing.T) {
	t.Setenv("API_SECRET", "s")
	t.Setenv("CACHE_BACKEND", "memcached")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRedisRequiresAddr(t *testing.T) {
	t.Setenv("API_SECRET", "s")
	t.Setenv("CACHE_BACKEND", "redis")

	_, err := Load("")
	assert.Error(t, err)
}
