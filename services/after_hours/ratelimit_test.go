package after_hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterBudget(t *testing.T) {
	limiter := NewEventRateLimiter(map[string]RateLimit{
		"after_hours:typing": {Max: 3, Window: 10 * time.Second},
	})

	now := time.Now()
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("after_hours:typing"))
	assert.True(t, limiter.Allow("after_hours:typing"))
	assert.True(t, limiter.Allow("after_hours:typing"))
	assert.False(t, limiter.Allow("after_hours:typing"), "fourth call in window must be throttled")
}

func TestRateLimiterWindowReset(t *testing.T) {
	limiter := NewEventRateLimiter(map[string]RateLimit{
		"after_hours:send_message": {Max: 2, Window: 60 * time.Second},
	})

	now := time.Now()
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("after_hours:send_message"))
	assert.True(t, limiter.Allow("after_hours:send_message"))
	assert.False(t, limiter.Allow("after_hours:send_message"))

	// A new window opens once the old one has fully elapsed
	now = now.Add(61 * time.Second)
	assert.True(t, limiter.Allow("after_hours:send_message"))
}

func TestRateLimiterIndependentEvents(t *testing.T) {
	limiter := NewEventRateLimiter(map[string]RateLimit{
		"after_hours:typing":    {Max: 1, Window: 10 * time.Second},
		"after_hours:mark_read": {Max: 1, Window: 10 * time.Second},
	})

	assert.True(t, limiter.Allow("after_hours:typing"))
	assert.False(t, limiter.Allow("after_hours:typing"))

	// Exhausting one event's budget must not throttle another
	assert.True(t, limiter.Allow("after_hours:mark_read"))
}

func TestRateLimiterUnconfiguredEvent(t *testing.T) {
	limiter := NewEventRateLimiter(map[string]RateLimit{})

	for i := 0; i < 100; i++ {
		assert.True(t, limiter.Allow("after_hours:leave_chat"))
	}
}

func TestDefaultRateLimitsCoverHandlers(t *testing.T) {
	for _, event := range []string{
		"after_hours:join_chat",
		"after_hours:send_message",
		"after_hours:typing",
		"after_hours:mark_read",
	} {
		_, ok := DefaultRateLimits[event]
		assert.True(t, ok, "missing default limit for %s", event)
	}
}
