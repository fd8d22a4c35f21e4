package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("requires a token secret", func(t *testing.T) {
		t.Setenv("TOKEN_SECRET", "")
		_, err := LoadConfig()
		require.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("TOKEN_SECRET", "secret")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.Equal(t, "soliloquio", cfg.HostName)
		require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
		require.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
		require.Equal(t, "auth.db", cfg.DatabaseFile)
		require.True(t, cfg.SingleUserMode)
		require.Equal(t, 8080, cfg.Port)
		require.Equal(t, time.Hour, cfg.HousekeepingInterval)
	})

	t.Run("reads overrides from the environment", func(t *testing.T) {
		t.Setenv("TOKEN_SECRET", "secret")
		t.Setenv("HOST_NAME", "blog.example.com")
		t.Setenv("TOKEN_EXPIRATION_SECONDS", "600")
		t.Setenv("REFRESH_TOKEN_EXPIRATION_DAYS", "30")
		t.Setenv("SINGLE_USER_MODE", "false")
		t.Setenv("PORT", "9090")
		t.Setenv("HOUSEKEEPING_INTERVAL", "30m")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.Equal(t, "blog.example.com", cfg.HostName)
		require.Equal(t, 10*time.Minute, cfg.AccessTokenTTL)
		require.Equal(t, 30*24*time.Hour, cfg.RefreshTokenTTL)
		require.False(t, cfg.SingleUserMode)
		require.Equal(t, 9090, cfg.Port)
		require.Equal(t, 30*time.Minute, cfg.HousekeepingInterval)
	})

	t.Run("falls back to defaults on malformed values", func(t *testing.T) {
		t.Setenv("TOKEN_SECRET", "secret")
		t.Setenv("PORT", "not-a-number")
		t.Setenv("SINGLE_USER_MODE", "maybe")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.Equal(t, 8080, cfg.Port)
		require.True(t, cfg.SingleUserMode)
	})
}
