package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("NOTIFICATIONS_DEFAULT_LIMIT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 20, cfg.Notifications.DefaultListLimit)
	assert.Equal(t, 100, cfg.Notifications.MaxListLimit)
	assert.Equal(t, "localhost:6379", cfg.Redis.RedisAddr())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("NOTIFICATIONS_DEFAULT_LIMIT", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10, cfg.Notifications.DefaultListLimit)
	assert.Contains(t, cfg.Database.DatabaseDSN(), "host=db.internal port=6543")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsInvertedLimits(t *testing.T) {
	t.Setenv("NOTIFICATIONS_DEFAULT_LIMIT", "50")
	t.Setenv("NOTIFICATIONS_MAX_LIMIT", "10")

	_, err := Load()
	assert.Error(t, err)
}
