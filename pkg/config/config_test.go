package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServer_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, int64(1<<20), cfg.BodyLimitBytes)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 120, cfg.RateLimitMax)
	assert.Equal(t, "json", cfg.StoreDriver)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadServer_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGIN", "https://a.example, https://b.example")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")

	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
}

func TestLoadServer_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadServer()
	assert.ErrorIs(t, err, ErrMissingSetting)
}

func TestLoadStorefront_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webly.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_base_url: https://shop.example\ncart_storage: redis\n"), 0o600))
	t.Setenv(ConfigFileEnv, path)

	cfg, err := LoadStorefront()
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example", cfg.APIBaseURL)
	assert.Equal(t, "redis", cfg.CartStorage)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "default", cfg.CartProfile)
}
