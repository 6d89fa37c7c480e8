package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/superlists")
	t.Setenv("SESSION_SECRET", "secret")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.True(t, cfg.EmailVerification)
	assert.Equal(t, time.Duration(0), cfg.ConfirmationTTL)
	assert.Equal(t, 336*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "distinct", cfg.InactiveLoginPolicy)
	assert.Equal(t, 5, cfg.LoginMaxFailures)
	assert.Equal(t, 10*time.Minute, cfg.LoginWindow)
	assert.Equal(t, "http", cfg.SiteScheme)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, int32(1), cfg.DBMinConns)
	assert.Equal(t, 30*time.Minute, cfg.DBMaxConnLifetime)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SESSION_SECRET", "secret")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CONFIRMATION_TTL", "48h")
	t.Setenv("INACTIVE_LOGIN_POLICY", "generic")
	t.Setenv("EMAIL_VERIFICATION", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, cfg.ConfirmationTTL)
	assert.Equal(t, "generic", cfg.InactiveLoginPolicy)
	assert.False(t, cfg.EmailVerification)
}

func TestLoadConfig_RejectsUnknownPolicy(t *testing.T) {
	setRequired(t)
	t.Setenv("INACTIVE_LOGIN_POLICY", "silent")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_RejectsPoolBounds(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_MAX_CONNS", "2")
	t.Setenv("DB_MIN_CONNS", "3")

	_, err := LoadConfig()
	require.Error(t, err)
}
