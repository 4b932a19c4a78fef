package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobboard")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Production)
	assert.False(t, cfg.SSOEnabled())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobboard")
	t.Setenv("ADDR", ":9999")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("PRODUCTION", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.Production)
}

func TestLoadRejectsBadBcryptCost(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobboard")
	t.Setenv("BCRYPT_COST", "99")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BCRYPT_COST")
}

func TestSSOEnabled(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobboard")
	t.Setenv("OIDC_ISSUER", "https://login.example.com")
	t.Setenv("OIDC_CLIENT_ID", "jobboard")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.SSOEnabled())
}
