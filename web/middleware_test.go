package web

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIdentityRateLimiter_EvictsIdleIdentities(t *testing.T) {
	t.Parallel()

	clock := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)
	limiter := newIdentityRateLimiter(2)
	limiter.now = func() time.Time { return clock }
	limiter.lastSweep = clock

	for i := 0; i < 50; i++ {
		assert.True(t, limiter.allow(fmt.Sprintf("user-%d", i)))
	}
	assert.Equal(t, 50, limiter.size())

	clock = clock.Add(limiterIdleTTL / 2)
	assert.True(t, limiter.allow("active"))
	assert.Equal(t, 51, limiter.size(), "no sweep before the idle ttl elapses")

	clock = clock.Add(limiterIdleTTL / 2)
	assert.True(t, limiter.allow("active"))
	assert.Equal(t, 1, limiter.size(), "only the recently seen identity survives")
}

func TestIdentityRateLimiter_EvictionKeepsLimit(t *testing.T) {
	t.Parallel()

	clock := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)
	limiter := newIdentityRateLimiter(1)
	limiter.now = func() time.Time { return clock }
	limiter.lastSweep = clock

	assert.True(t, limiter.allow("user-1"))
	assert.False(t, limiter.allow("user-1"))

	clock = clock.Add(30 * time.Second)
	assert.False(t, limiter.allow("user-1"))

	clock = clock.Add(limiterIdleTTL)
	assert.True(t, limiter.allow("user-1"))
}
