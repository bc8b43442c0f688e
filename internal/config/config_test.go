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

	assert.Equal(t, "project-tracker", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 60, cfg.Auth.AccessTokenTTLMinutes)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.True(t, cfg.Postgres.RunMigrations)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, 15, cfg.Auth.AccessTokenTTLMinutes)
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}
