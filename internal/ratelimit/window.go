package ratelimit

import (
	"sync"
	"time"
)

// Limiter decides whether a client identified by key may proceed.
type Limiter interface {
	Allow(key string) bool
}

// SlidingWindow allows at most limit events per key within the trailing
// window. Timestamps are pruned lazily on access.
type SlidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	events map[string][]time.Time
	now    func() time.Time
}

func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &SlidingWindow{
		limit:  limit,
		window: window,
		events: make(map[string][]time.Time),
		now:    time.Now,
	}
}

func (l *SlidingWindow) Allow(key string) bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.events[key][:0]
	for _, ts := range l.events[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.limit {
		l.events[key] = kept
		return false
	}
	l.events[key] = append(kept, now)
	return true
}

// Sweep drops keys with no recent events so the map does not grow without
// bound. Intended to run from a janitor ticker.
func (l *SlidingWindow) Sweep() {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, events := range l.events {
		alive := false
		for _, ts := range events {
			if ts.After(cutoff) {
				alive = true
				break
			}
		}
		if !alive {
			delete(l.events, key)
		}
	}
}
