package ratelimit

import (
	"testing"
	"time"
)

func TestSlidingWindowEnforcesLimit(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewSlidingWindow(3, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("client") {
			t.Fatalf("request %d denied under the limit", i+1)
		}
	}
	if l.Allow("client") {
		t.Fatalf("request over the limit was allowed")
	}
}

func TestSlidingWindowRecoversAfterWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewSlidingWindow(1, time.Minute)
	l.now = func() time.Time { return now }

	if !l.Allow("client") {
		t.Fatalf("first request denied")
	}
	if l.Allow("client") {
		t.Fatalf("second request allowed inside the window")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow("client") {
		t.Fatalf("request denied after the window elapsed")
	}
}

func TestSlidingWindowKeysAreIndependent(t *testing.T) {
	l := NewSlidingWindow(1, time.Minute)
	if !l.Allow("a") {
		t.Fatalf("first request for a denied")
	}
	if !l.Allow("b") {
		t.Fatalf("b throttled by a's usage")
	}
}

func TestSweepDropsIdleKeys(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewSlidingWindow(1, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("idle")
	now = now.Add(2 * time.Minute)
	l.Sweep()

	l.mu.Lock()
	_, ok := l.events["idle"]
	l.mu.Unlock()
	if ok {
		t.Fatalf("idle key survived sweep")
	}
}
