package observability

import (
	"testing"
	"time"
)

func TestLatencyWindowSnapshotStats(t *testing.T) {
	w := NewLatencyWindow(8)
	for _, ms := range []int{100, 200, 300, 400} {
		w.Observe("explain", time.Duration(ms)*time.Millisecond)
	}

	snap := w.Snapshot()
	if len(snap.Stages) != 1 {
		t.Fatalf("stages = %d, want 1", len(snap.Stages))
	}
	s := snap.Stages[0]
	if s.Stage != "explain" || s.Samples != 4 {
		t.Fatalf("unexpected stage stats: %+v", s)
	}
	if s.LastMS != 400 {
		t.Fatalf("LastMS = %v, want 400", s.LastMS)
	}
	if s.AvgMS != 250 {
		t.Fatalf("AvgMS = %v, want 250", s.AvgMS)
	}
	if s.P50MS != 250 {
		t.Fatalf("P50MS = %v, want 250", s.P50MS)
	}
}

func TestLatencyWindowWrapsAround(t *testing.T) {
	w := NewLatencyWindow(2)
	w.Observe("followup", 10*time.Millisecond)
	w.Observe("followup", 20*time.Millisecond)
	w.Observe("followup", 30*time.Millisecond)

	snap := w.Snapshot()
	if snap.Stages[0].Samples != 2 {
		t.Fatalf("Samples = %d, want window size 2", snap.Stages[0].Samples)
	}
	if snap.Stages[0].LastMS != 30 {
		t.Fatalf("LastMS = %v, want 30", snap.Stages[0].LastMS)
	}
}

func TestLatencyWindowReset(t *testing.T) {
	w := NewLatencyWindow(4)
	w.Observe("explain", time.Millisecond)
	w.Reset()
	if snap := w.Snapshot(); len(snap.Stages) != 0 {
		t.Fatalf("expected empty snapshot after reset, got %+v", snap.Stages)
	}
}
