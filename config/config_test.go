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
	c, err := Load()
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, "8080", c.Port)
	assert.Contains(t, c.DatabaseDSN, "caption_service.db")
	assert.Contains(t, c.DatabaseDSN, "_txlock=immediate")
	assert.Equal(t, CacheConfig{Type: "none", RedisAddr: "localhost:6379"}, c.Cache)
	assert.Equal(t, 12, c.BcryptCost)
	assert.Equal(t, time.Duration(0), c.TokenTTL)
	assert.Equal(t, []string{"*"}, c.CORS.AllowedOrigins)
	assert.Equal(t, []string{"GET", "POST", "OPTIONS"}, c.CORS.AllowedMethods)
	assert.Equal(t, []string{"Content-Type", "Authorization"}, c.CORS.AllowedHeaders)
	assert.False(t, c.CORS.AllowCredentials)
	assert.Equal(t, 600, c.CORS.MaxAge)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CAPTION_PORT", "9090")
	t.Setenv("CAPTION_CACHE_TYPE", "redis")
	t.Setenv("CAPTION_CACHE_REDIS_DB", "3")
	t.Setenv("CAPTION_AUTH_TOKEN_TTL", "2h")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, "redis", c.Cache.Type)
	assert.Equal(t, 3, c.Cache.RedisDB)
	assert.Equal(t, 2*time.Hour, c.TokenTTL)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caption.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7070"
auth:
  bcrypt_cost: 10
  token_ttl: 30m
cors:
  allowed_origins:
    - http://localhost:3000
    - https://captions.example.org
  allow_credentials: true
`), 0o600))
	t.Setenv("CAPTION_CONFIG", path)
	t.Setenv("CAPTION_PORT", "6060")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "6060", c.Port, "environment wins over the file")
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, 30*time.Minute, c.TokenTTL)
	assert.Equal(t, []string{"http://localhost:3000", "https://captions.example.org"}, c.CORS.AllowedOrigins)
	assert.True(t, c.CORS.AllowCredentials)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("CAPTION_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_NegativeTTL(t *testing.T) {
	t.Setenv("CAPTION_AUTH_TOKEN_TTL", "-1m")

	_, err := Load()
	require.Error(t, err)
}
