package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "APP_ENV", "REDIS_ADDR", "REDIS_DB", "NOTIFY_PUBLISH_TIMEOUT_MS", "POSTGRES_DSN", "PANEL_API_BASE_URL", "PANEL_ENABLED", "HTTP_REQUEST_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Equal(t, "development", cfg.Logger.Env)
	assert.True(t, cfg.Postgres.RunMigrations)
	assert.Empty(t, cfg.Redis.Addr, "redis stays disabled unless an address is given")
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, "incident-panel.events", cfg.Notification.RedisChannel)
	assert.Equal(t, 2*time.Second, cfg.Notification.PublishTimeout())
	assert.True(t, cfg.Panel.Enabled)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.Panel.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.Panel.ClientTimeout())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("NOTIFY_PUBLISH_TIMEOUT_MS", "250")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("PANEL_ENABLED", "false")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("PANEL_API_BASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "production", cfg.Logger.Env)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Notification.PublishTimeout())
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.False(t, cfg.Panel.Enabled)
	assert.Equal(t, time.Duration(0), cfg.App.RequestTimeout())
	assert.Equal(t, "http://127.0.0.1:9090", cfg.Panel.APIBaseURL)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "primary")

	_, err := Load()
	assert.Error(t, err)
}
