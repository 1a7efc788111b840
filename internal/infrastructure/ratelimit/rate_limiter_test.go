package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter() (*RateLimiter, *time.Time) {
	rl := NewRateLimiter()
	current := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }
	return rl, &current
}

func TestAllowWithinLimit(t *testing.T) {
	rl, _ := newTestLimiter()

	for i := 0; i < 5; i++ {
		allowed, wait := rl.Allow("user-1", "send_message")
		assert.True(t, allowed, "message %d should be allowed", i+1)
		assert.Zero(t, wait)
	}
}

func TestRejectOverLimit(t *testing.T) {
	rl, _ := newTestLimiter()

	for i := 0; i < 5; i++ {
		rl.Allow("user-1", "send_message")
	}

	allowed, wait := rl.Allow("user-1", "send_message")
	assert.False(t, allowed)
	assert.Equal(t, 10*time.Second, wait)
}

func TestWindowRecovery(t *testing.T) {
	rl, now := newTestLimiter()

	for i := 0; i < 5; i++ {
		rl.Allow("user-1", "send_message")
	}

	allowed, _ := rl.Allow("user-1", "send_message")
	assert.False(t, allowed)

	*now = now.Add(11 * time.Second)

	allowed, wait := rl.Allow("user-1", "send_message")
	assert.True(t, allowed)
	assert.Zero(t, wait)
}

func TestWaitTimeDecreases(t *testing.T) {
	rl, now := newTestLimiter()

	for i := 0; i < 5; i++ {
		rl.Allow("user-1", "send_message")
	}

	_, first := rl.Allow("user-1", "send_message")

	*now = now.Add(4 * time.Second)

	_, second := rl.Allow("user-1", "send_message")
	assert.Less(t, second, first)
	assert.Equal(t, 6*time.Second, second)
}

func TestUsersIsolated(t *testing.T) {
	rl, _ := newTestLimiter()

	for i := 0; i < 5; i++ {
		rl.Allow("user-1", "send_message")
	}

	allowed, _ := rl.Allow("user-2", "send_message")
	assert.True(t, allowed)
}

func TestActionsIsolated(t *testing.T) {
	rl, _ := newTestLimiter()

	for i := 0; i < 3; i++ {
		rl.Allow("user-1", "create_listing")
	}

	allowed, _ := rl.Allow("user-1", "create_listing")
	assert.False(t, allowed)

	allowed, _ = rl.Allow("user-1", "send_message")
	assert.True(t, allowed)
}

func TestCreateListingWindow(t *testing.T) {
	rl, now := newTestLimiter()

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("user-1", "create_listing")
		assert.True(t, allowed)
	}

	allowed, wait := rl.Allow("user-1", "create_listing")
	assert.False(t, allowed)
	assert.Equal(t, 5*time.Minute, wait)

	*now = now.Add(5*time.Minute + time.Second)

	allowed, _ = rl.Allow("user-1", "create_listing")
	assert.True(t, allowed)
}

func TestRemainingWaitDoesNotConsume(t *testing.T) {
	rl, _ := newTestLimiter()

	for i := 0; i < 4; i++ {
		rl.Allow("user-1", "send_message")
	}

	assert.Zero(t, rl.RemainingWait("user-1", "send_message"))

	allowed, _ := rl.Allow("user-1", "send_message")
	assert.True(t, allowed, "RemainingWait must not consume the last slot")

	assert.Positive(t, rl.RemainingWait("user-1", "send_message"))
}

func TestCleanupRemovesIdleWindows(t *testing.T) {
	rl, now := newTestLimiter()

	rl.Allow("user-1", "send_message")
	assert.Len(t, rl.windows, 1)

	*now = now.Add(61 * time.Minute)
	rl.Cleanup()

	assert.Empty(t, rl.windows)
}
