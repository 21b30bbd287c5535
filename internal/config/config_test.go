package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "cinema-service", cfg.App.Name)
	assert.Equal(t, "HS256", cfg.Auth.JWTSigningAlgorithm)
	assert.Equal(t, 14, cfg.Auth.BcryptCost)
	assert.Equal(t, 10*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenTTL())
	assert.Equal(t, 24*time.Hour, cfg.Auth.ActivationTTL())
	assert.Equal(t, time.Hour, cfg.Auth.PasswordResetTTL())
	assert.True(t, cfg.Sweep.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SECRET_KEY_ACCESS", "prod-access")
	t.Setenv("SECRET_KEY_REFRESH", "prod-refresh")
	t.Setenv("JWT_SIGNING_ALGORITHM", "HS512")
	t.Setenv("LOGIN_TIME_DAYS", "30")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "5")
	t.Setenv("SWEEP_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod-access", cfg.Auth.SecretKeyAccess)
	assert.Equal(t, "prod-refresh", cfg.Auth.SecretKeyRefresh)
	assert.Equal(t, "HS512", cfg.Auth.JWTSigningAlgorithm)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.RefreshTokenTTL())
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.False(t, cfg.Sweep.Enabled)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestAppConfig_Addr(t *testing.T) {
	app := AppConfig{Host: "127.0.0.1", Port: "9090"}
	assert.Equal(t, "127.0.0.1:9090", app.Addr())
}
