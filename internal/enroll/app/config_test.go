package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := LoadConfig()
		require.Equal(t, "enroll.db", cfg.DatabaseFile)
		require.Equal(t, 7*24*time.Hour, cfg.InvitationTTL)
		require.Equal(t, 8080, cfg.Port)
		require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
		require.Equal(t, time.Hour, cfg.HousekeepingInterval)
		require.Equal(t, "Administrator", cfg.SeedAdminName)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("ENROLL_SESSION_SECRET", "secret")
		t.Setenv("ENROLL_DATABASE_FILE", "/tmp/test.db")
		t.Setenv("ENROLL_INVITATION_TTL", "48h")
		t.Setenv("PORT", "9090")

		cfg := LoadConfig()
		require.Equal(t, "secret", cfg.SessionSecret)
		require.Equal(t, "/tmp/test.db", cfg.DatabaseFile)
		require.Equal(t, 48*time.Hour, cfg.InvitationTTL)
		require.Equal(t, 9090, cfg.Port)
	})

	t.Run("garbage values fall back to defaults", func(t *testing.T) {
		t.Setenv("PORT", "not-a-number")
		t.Setenv("ENROLL_INVITATION_TTL", "eventually")

		cfg := LoadConfig()
		require.Equal(t, 8080, cfg.Port)
		require.Equal(t, 7*24*time.Hour, cfg.InvitationTTL)
	})
}
