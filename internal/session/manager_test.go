package session

import (
	"context"
	"testing"
	"time"
)

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create()
	if s.ID == "" {
		t.Fatalf("session ID should not be empty")
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != s.ID {
		t.Fatalf("Get() ID = %q, want %q", got.ID, s.ID)
	}
	if m.ActiveCount() != 1 {
		t.Fatalf("ActiveCount() = %d, want 1", m.ActiveCount())
	}
}

func TestManagerEnsureReusesKnownSession(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create()

	got, created := m.Ensure(s.ID)
	if created {
		t.Fatalf("Ensure() created a new session for a known ID")
	}
	if got.ID != s.ID {
		t.Fatalf("Ensure() ID = %q, want %q", got.ID, s.ID)
	}
}

func TestManagerEnsureReplacesStaleCookie(t *testing.T) {
	m := NewManager(time.Minute)

	got, created := m.Ensure("no-such-session")
	if !created {
		t.Fatalf("Ensure() should create a session for an unknown ID")
	}
	if got.ID == "" || got.ID == "no-such-session" {
		t.Fatalf("Ensure() ID = %q, want a fresh ID", got.ID)
	}
}

func TestManagerJanitorExpiresIdleAndRunsHook(t *testing.T) {
	m := NewManager(30 * time.Millisecond)
	s := m.Create()

	expired := make(chan string, 1)
	m.SetExpireHook(func(s *Session) { expired <- s.ID })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.StartJanitor(ctx, 10*time.Millisecond)

	select {
	case id := <-expired:
		if id != s.ID {
			t.Fatalf("expired ID = %q, want %q", id, s.ID)
		}
	case <-time.After(time.Second):
		t.Fatalf("expire hook never fired")
	}

	if _, err := m.Get(s.ID); err != ErrNotFound {
		t.Fatalf("Get() after expiry error = %v, want %v", err, ErrNotFound)
	}
}
