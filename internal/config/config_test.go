package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("TEAM_DEFAULT_MAX_MEMBERS", "")
	t.Setenv("TEAM_CODE_ATTEMPTS", "")
	t.Setenv("MATCH_SESSION_TTL_MINUTES", "")
	t.Setenv("APP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	require.Empty(t, cfg.Postgres.DSN)
	require.Empty(t, cfg.Redis.Addr)
	require.False(t, cfg.Redis.Enabled())
	require.Equal(t, 4, cfg.Teams.DefaultMaxMembers)
	require.Equal(t, 5, cfg.Teams.CodeAttempts)
	require.Equal(t, 30*time.Minute, cfg.Matching.SessionTTL())
	require.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("TEAM_DEFAULT_MAX_MEMBERS", "6")
	t.Setenv("TEAM_CODE_ATTEMPTS", "0")
	t.Setenv("MATCH_SESSION_TTL_MINUTES", "5")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.App.Port)
	require.Equal(t, "redis:6379", cfg.Redis.Addr)
	require.True(t, cfg.Redis.Enabled())
	require.Equal(t, 6, cfg.Teams.DefaultMaxMembers)
	require.Equal(t, 1, cfg.Teams.CodeAttempts)
	require.Equal(t, 5*time.Minute, cfg.Matching.SessionTTL())
	require.False(t, cfg.Postgres.RunMigrations)
	require.Equal(t, 30, cfg.App.RequestTimeoutSeconds)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("redis db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "x")
		_, err := Load()
		require.Error(t, err)
	})
	t.Run("max members", func(t *testing.T) {
		t.Setenv("TEAM_DEFAULT_MAX_MEMBERS", "0")
		_, err := Load()
		require.Error(t, err)
	})
}
