package redis

import (
	"context"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Rrens/quackbot/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyKey(t *testing.T) {
	a := ReplyKey("phase1", "General", "who is hiring?")
	b := ReplyKey("phase1", "General", "  who is hiring?  ")
	c := ReplyKey("phase2", "General", "who is hiring?")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, replyCachePrefix+"phase1:General:"))
	assert.NotContains(t, a, "hiring")
}

// newTestClient connects to REDIS_ADDR (host:port) or skips
func newTestClient(t *testing.T) *Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("Skipping integration test: REDIS_ADDR not set")
	}
	host, portStr, ok := strings.Cut(addr, ":")
	require.True(t, ok)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	client, err := NewClient(context.Background(), config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRateLimiter_Integration(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	limiter := NewRateLimiter(client, 2, 1)
	key := uuid.NewString()
	t.Cleanup(func() { limiter.Reset(ctx, key) })

	for i := 0; i < 3; i++ {
		allowed, _, _, err := limiter.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i)
	}

	allowed, remaining, _, err := limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)

	require.NoError(t, limiter.Reset(ctx, key))
	allowed, _, _, err = limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestReplyCache_Integration(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	cache := NewReplyCache(client, time.Minute)
	topic := "Acme-" + uuid.NewString()

	_, ok, err := cache.Get(ctx, "phase1", topic, "hello")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "phase1", topic, "hello", "Quack!"))
	reply, ok, err := cache.Get(ctx, "phase1", topic, "hello")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Quack!", reply)

	deleted, err := cache.FlushAll(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, deleted, int64(1))
}
