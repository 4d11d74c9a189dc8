package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "http://localhost:8080", cfg.App.PublicURL)
	assert.Equal(t, "portfolio", cfg.Storage.Namespace)
	assert.Equal(t, 3, cfg.Auth.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LockoutDuration)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionLifespan)
	assert.Equal(t, 30*time.Minute, cfg.Auth.IdleTimeout)
	assert.Equal(t, time.Minute, cfg.Auth.IdleCheckInterval)
	assert.Equal(t, 1000, cfg.Activity.MaxEntries)
	assert.Equal(t, 7*24*time.Hour, cfg.Activity.Retention)
	assert.Equal(t, 2*time.Second, cfg.Profile.AutosaveDelay)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
storage:
  backend: redis
auth:
  max_attempts: 5
  admins:
    - email: admin@example.com
      password_hash: "$2a$10$abc"
      role: super_admin
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("APP_PORT", "9999")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, 5, cfg.Auth.MaxAttempts)
	assert.Equal(t, "9999", cfg.App.Port)
	require.Len(t, cfg.Auth.Admins, 1)
	assert.Equal(t, "admin@example.com", cfg.Auth.Admins[0].Email)
	assert.Equal(t, "super_admin", cfg.Auth.Admins[0].Role)
}
