package after_hours

import (
	"sync"
	"time"
)

// RateLimit is a fixed-window budget for one event type.
type RateLimit struct {
	Max    int
	Window time.Duration
}

// Per-connection defaults. Each event type is throttled independently so a
// typing storm can't starve message sends.
var DefaultRateLimits = map[string]RateLimit{
	"after_hours:join_chat":    {Max: 20, Window: 60 * time.Second},
	"after_hours:send_message": {Max: 30, Window: 60 * time.Second},
	"after_hours:typing":       {Max: 10, Window: 10 * time.Second},
	"after_hours:mark_read":    {Max: 60, Window: 60 * time.Second},
}

type window struct {
	start time.Time
	count int
}

// EventRateLimiter throttles events for one socket connection. One instance
// is created per connection, so the map key is just the event name.
type EventRateLimiter struct {
	mu      sync.Mutex
	limits  map[string]RateLimit
	windows map[string]*window
	now     func() time.Time
}

func NewEventRateLimiter(limits map[string]RateLimit) *EventRateLimiter {
	if limits == nil {
		limits = DefaultRateLimits
	}
	return &EventRateLimiter{
		limits:  limits,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow reports whether one more occurrence of event fits in the current
// window. Events without a configured limit are always allowed.
func (l *EventRateLimiter) Allow(event string) bool {
	limit, ok := l.limits[event]
	if !ok {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[event]
	if !ok || now.Sub(w.start) >= limit.Window {
		l.windows[event] = &window{start: now, count: 1}
		return true
	}

	if w.count >= limit.Max {
		return false
	}
	w.count++
	return true
}
