package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedRateLimiter_AllowBurst(t *testing.T) {
	limiter := New(1, 3)
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("127.0.0.1"), "request %d within burst", i)
	}
	assert.False(t, limiter.Allow("127.0.0.1"), "request beyond burst should be refused")
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	limiter := New(1, 1)
	defer limiter.Stop()

	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("b"))
	assert.Equal(t, 2, limiter.Len())
}

func TestKeyedRateLimiter_Wait(t *testing.T) {
	limiter := New(100, 1)
	defer limiter.Stop()

	ctx := context.Background()
	require.NoError(t, limiter.Wait(ctx, "host"))

	start := time.Now()
	require.NoError(t, limiter.Wait(ctx, "host"))
	assert.Less(t, time.Since(start), time.Second)
}

func TestKeyedRateLimiter_WaitContextCancelled(t *testing.T) {
	limiter := New(0.001, 1)
	defer limiter.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, limiter.Wait(ctx, "host"))

	cancel()
	assert.Error(t, limiter.Wait(ctx, "host"))
}

func TestKeyedRateLimiter_Evict(t *testing.T) {
	limiter := New(1, 1)
	defer limiter.Stop()

	limiter.Allow("old")
	limiter.evict(time.Now().Add(time.Second))
	assert.Equal(t, 0, limiter.Len())

	limiter.Allow("fresh")
	limiter.evict(time.Now().Add(-time.Minute))
	assert.Equal(t, 1, limiter.Len())
}

func TestKeyedRateLimiter_StopTwice(t *testing.T) {
	limiter := New(1, 1)
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}
