// Package stats tracks rolling-window latency samples per pipeline stage,
// backing the soft SLA reporting endpoint.
package stats

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
}

// Snapshot is a point-in-time aggregate of one stage's latency samples.
type Snapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Registry tracks recent stage latencies within a rolling window.
type Registry struct {
	mu     sync.Mutex
	stages map[string][]sample
	maxAge time.Duration
}

func NewRegistry(maxAge time.Duration) *Registry {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Registry{
		stages: make(map[string][]sample),
		maxAge: maxAge,
	}
}

// Record adds one latency sample for a stage.
func (r *Registry) Record(stage string, durationMs int64) {
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.stages[stage] = append(r.pruneLocked(stage, now), sample{
		timestamp:  now,
		durationMs: durationMs,
	})
}

// Observe records the elapsed time since start for a stage.
func (r *Registry) Observe(stage string, start time.Time) {
	r.Record(stage, time.Since(start).Milliseconds())
}

// Snapshot aggregates all stages' current windows.
func (r *Registry) Snapshot() map[string]Snapshot {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]Snapshot, len(r.stages))
	for stage := range r.stages {
		samples := r.pruneLocked(stage, now)
		r.stages[stage] = samples
		if len(samples) == 0 {
			continue
		}

		values := make([]int64, 0, len(samples))
		var sum int64
		for _, sm := range samples {
			values = append(values, sm.durationMs)
			sum += sm.durationMs
		}
		sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

		out[stage] = Snapshot{
			Count: len(values),
			MinMs: values[0],
			MaxMs: values[len(values)-1],
			AvgMs: float64(sum) / float64(len(values)),
			P50Ms: percentile(values, 50),
			P95Ms: percentile(values, 95),
			P99Ms: percentile(values, 99),
		}
	}
	return out
}

func (r *Registry) pruneLocked(stage string, now time.Time) []sample {
	cutoff := now.Add(-r.maxAge)
	samples := r.stages[stage]
	writeIdx := 0
	for _, sm := range samples {
		if !sm.timestamp.Before(cutoff) {
			samples[writeIdx] = sm
			writeIdx++
		}
	}
	return samples[:writeIdx]
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
