package config_test

import (
	"testing"

	"go-ems/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("PORT", "")
		t.Setenv("LEAVE_REJECT_OVERLAP", "")

		cfg, err := config.Load()

		assert.NoError(t, err)
		assert.Equal(t, "3000", cfg.App.Port)
		assert.False(t, cfg.Leave.RejectOverlap)
		assert.Contains(t, cfg.Database.DSN(), "port=")
	})

	t.Run("overlap flag", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("LEAVE_REJECT_OVERLAP", "true")

		cfg, err := config.Load()

		assert.NoError(t, err)
		assert.True(t, cfg.Leave.RejectOverlap)
	})

	t.Run("negative invalid bool", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("LEAVE_REJECT_OVERLAP", "maybe")

		_, err := config.Load()

		assert.Error(t, err)
	})

	t.Run("negative missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := config.Load()

		assert.Error(t, err)
	})
}
