package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StorageMemory, cfg.StorageType)
	assert.Equal(t, RoundStoreMemory, cfg.RoundStore)
	assert.False(t, cfg.ElasticsearchEnabled)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("STORAGE_TYPE", StorageSQLite)
	t.Setenv("DATA_DIR", "/var/lib/casino")
	t.Setenv("ROUND_STORE", RoundStoreRedis)
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, StorageSQLite, cfg.StorageType)
	assert.Equal(t, RoundStoreRedis, cfg.RoundStore)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, filepath.Join("/var/lib/casino", "casino.db"), cfg.SQLitePath())
}

func TestLoadRejectsUnknownBackends(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "cassandra")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownRoundStore(t *testing.T) {
	t.Setenv("ROUND_STORE", "memcached")
	_, err := Load()
	assert.Error(t, err)
}
