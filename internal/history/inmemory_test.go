package history

import (
	"context"
	"testing"
)

func TestMemoryStoreSaveAndRecent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, topic := range []string{"DNA", "Black Holes", "Photosynthesis"} {
		if err := s.Save(ctx, Record{SessionID: "sess", Topic: topic, Style: "example"}); err != nil {
			t.Fatalf("Save(%q) error = %v", topic, err)
		}
	}

	got, err := s.Recent(ctx, "sess", 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent() = %d records, want 2", len(got))
	}
	if got[0].Topic != "Black Holes" || got[1].Topic != "Photosynthesis" {
		t.Fatalf("Recent() returned %q then %q, want the two newest in order", got[0].Topic, got[1].Topic)
	}
	if got[0].ID == "" || got[0].CreatedAt.IsZero() {
		t.Fatalf("Save() did not stamp ID/CreatedAt: %+v", got[0])
	}
}

func TestMemoryStoreRecentIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Save(ctx, Record{SessionID: "sess-a", Topic: "DNA"})

	got, err := s.Recent(ctx, "sess-b", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Recent() leaked %d records across sessions", len(got))
	}
}
