// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qbraid/qbraid-go/internal/config"
	"github.com/qbraid/qbraid-go/internal/log"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedis("test", RedisConfig{Addr: mr.Addr()}, log.WithComponent("test"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCacheSetGet(t *testing.T) {
	c, _ := newTestRedis(t)
	ctx := context.Background()

	c.Set(ctx, "devices", []byte(`[{"qbraid_id":"aws_sv1"}]`), time.Minute)

	val, ok := c.Get(ctx, "devices")
	require.True(t, ok)
	assert.Contains(t, string(val), "aws_sv1")

	_, ok = c.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestRedisCacheTTL(t *testing.T) {
	c, mr := newTestRedis(t)
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), 50*time.Millisecond)
	mr.FastForward(time.Second)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisCacheDeleteAndClear(t *testing.T) {
	c, _ := newTestRedis(t)
	ctx := context.Background()

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Delete(ctx, "a")
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)

	c.Set(ctx, "b", []byte("2"), time.Minute)
	c.Clear(ctx)
	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)
}

func TestRedisCacheStats(t *testing.T) {
	c, _ := newTestRedis(t)
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Minute)
	c.Get(ctx, "k")
	c.Get(ctx, "nope")

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
	assert.Equal(t, 1, stats.CurrentSize)
}

func TestRedisCacheHealthCheck(t *testing.T) {
	c, mr := newTestRedis(t)
	require.NoError(t, c.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, c.HealthCheck(context.Background()))
}

func TestFactorySelectsBackend(t *testing.T) {
	logger := log.WithComponent("test")

	cfg := config.Defaults()
	cfg.CacheBackend = "memory"
	c, err := New("test", cfg, logger)
	require.NoError(t, err)
	_, ok := c.(*memoryCache)
	assert.True(t, ok)

	cfg.CacheBackend = "none"
	c, err = New("test", cfg, logger)
	require.NoError(t, err)
	_, ok = c.(*noOpCache)
	assert.True(t, ok)

	cfg.CacheBackend = "bogus"
	_, err = New("test", cfg, logger)
	assert.Error(t, err)
}
