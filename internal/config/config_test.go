package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "pw")
	t.Setenv("UPSTREAM_TOKEN", "provider-token")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, time.Hour, cfg.Sync.Interval)
	assert.Equal(t, 12*time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, "https://cricket.sportmonks.com/api/v2.0", cfg.Upstream.BaseURL)
	assert.Equal(t, "provider-token", cfg.Upstream.Token)
	assert.Equal(t, "admin", cfg.Admin.Username)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SYNC_INTERVAL", "30m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "pw")
	t.Setenv("UPSTREAM_TOKEN", "provider-token")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestLoadConfigRequiresUpstreamToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "pw")
	t.Setenv("UPSTREAM_TOKEN", "")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream.token")
}
