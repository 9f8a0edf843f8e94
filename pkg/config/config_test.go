package config

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("POSTGRES_CONN_STR", "host=localhost user=posts dbname=posts")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, CacheBackendRedis, cfg.CacheBackend)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, float64(20), cfg.RateLimit)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("ACCESS_TOKEN_EXPIRE", "1h")
	t.Setenv("RATE_LIMIT", "0")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, CacheBackendMemory, cfg.CacheBackend)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Zero(t, cfg.RateLimit)
	assert.True(t, cfg.IsProduction())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad duration", "CACHE_TTL", "soon"},
		{"bad token ttl", "ACCESS_TOKEN_EXPIRE", "0s"},
		{"bad rate", "RATE_LIMIT", "fast"},
		{"unknown backend", "CACHE_BACKEND", "memcached"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("POSTGRES_CONN_STR", "host=localhost")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestInitCacheMemory(t *testing.T) {
	c, err := InitCache(&Config{CacheBackend: CacheBackendMemory, CacheTTL: time.Minute})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Reactions.Set(context.Background(), 1, []byte("[]")))
	data, ok, err := c.Reactions.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", string(data))
}

func TestInitCacheRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := InitCache(&Config{CacheBackend: CacheBackendRedis, RedisURL: "redis://" + mr.Addr() + "/0"})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Reactions.Set(context.Background(), 7, []byte("[]")))
	assert.True(t, mr.Exists("reactions:7"))
}

func TestInitCacheRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := InitCache(&Config{CacheBackend: CacheBackendRedis, RedisURL: "redis://" + addr + "/0"})
	assert.Error(t, err)
}
