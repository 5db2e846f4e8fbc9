package stats

import (
	"testing"
	"time"
)

func TestRegistry_RecordAndSnapshot(t *testing.T) {
	r := NewRegistry(time.Hour)
	for _, ms := range []int64{10, 20, 30, 40, 50} {
		r.Record("parsing", ms)
	}

	snap := r.Snapshot()
	s, ok := snap["parsing"]
	if !ok {
		t.Fatal("expected parsing stage in snapshot")
	}
	if s.Count != 5 {
		t.Errorf("expected count 5, got %d", s.Count)
	}
	if s.MinMs != 10 || s.MaxMs != 50 {
		t.Errorf("expected min 10 max 50, got min %d max %d", s.MinMs, s.MaxMs)
	}
	if s.AvgMs != 30 {
		t.Errorf("expected avg 30, got %v", s.AvgMs)
	}
	if s.P50Ms != 30 {
		t.Errorf("expected p50 30, got %v", s.P50Ms)
	}
}

func TestRegistry_PercentileInterpolation(t *testing.T) {
	r := NewRegistry(time.Hour)
	r.Record("stage", 0)
	r.Record("stage", 100)

	snap := r.Snapshot()["stage"]
	if snap.P50Ms != 50 {
		t.Errorf("expected interpolated p50 of 50, got %v", snap.P50Ms)
	}
}

func TestRegistry_NegativeClampedToZero(t *testing.T) {
	r := NewRegistry(time.Hour)
	r.Record("stage", -5)

	snap := r.Snapshot()["stage"]
	if snap.MinMs != 0 {
		t.Errorf("expected negative duration clamped to 0, got %d", snap.MinMs)
	}
}

func TestRegistry_WindowPrunesOldSamples(t *testing.T) {
	r := NewRegistry(50 * time.Millisecond)
	r.Record("stage", 10)
	time.Sleep(100 * time.Millisecond)
	r.Record("stage", 20)

	snap := r.Snapshot()["stage"]
	if snap.Count != 1 {
		t.Errorf("expected 1 sample after pruning, got %d", snap.Count)
	}
	if snap.MinMs != 20 {
		t.Errorf("expected only the fresh sample, got min %d", snap.MinMs)
	}
}

func TestRegistry_EmptySnapshot(t *testing.T) {
	r := NewRegistry(time.Hour)
	if len(r.Snapshot()) != 0 {
		t.Error("expected empty snapshot for empty registry")
	}
}

func TestRegistry_Observe(t *testing.T) {
	r := NewRegistry(time.Hour)
	r.Observe("stage", time.Now().Add(-20*time.Millisecond))

	snap := r.Snapshot()["stage"]
	if snap.Count != 1 {
		t.Fatalf("expected 1 sample, got %d", snap.Count)
	}
	if snap.MinMs < 15 {
		t.Errorf("expected elapsed around 20ms, got %d", snap.MinMs)
	}
}
