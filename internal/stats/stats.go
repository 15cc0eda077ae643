// Package stats aggregates curation outcomes and processing latency over a
// rolling window.
package stats

import (
	"slices"
	"sync"
	"time"
)

// Outcome is the final state of a processed document.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeInvalid   Outcome = "invalid"
)

// Document is what a worker reports after finishing one document.
type Document struct {
	Outcome      Outcome
	Duration     time.Duration
	Identifiers  int
	Pruned       int
	Unrecognized int
}

type sample struct {
	at  time.Time
	doc Document
}

// Snapshot is a point-in-time aggregate of the samples in the window.
type Snapshot struct {
	Documents    int            `json:"documents"`
	Outcomes     map[string]int `json:"outcomes"`
	Identifiers  int            `json:"identifiers"`
	Pruned       int            `json:"pruned"`
	Unrecognized int            `json:"unrecognized"`
	Latency      Latency        `json:"latency"`
}

// Latency summarizes processing time in milliseconds.
type Latency struct {
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Collector keeps document samples no older than its window.
type Collector struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
	now     func() time.Time
}

func NewCollector(window time.Duration) *Collector {
	if window <= 0 {
		window = time.Hour
	}
	return &Collector{
		samples: make([]sample, 0, 256),
		window:  window,
		now:     time.Now,
	}
}

func (c *Collector) Record(d Document) {
	if d.Duration < 0 {
		d.Duration = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.pruneLocked(now)
	c.samples = append(c.samples, sample{at: now, doc: d})
}

func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked(c.now())
	snap := Snapshot{Outcomes: map[string]int{}}
	if len(c.samples) == 0 {
		return snap
	}

	ms := make([]int64, 0, len(c.samples))
	var sum int64
	for _, s := range c.samples {
		snap.Outcomes[string(s.doc.Outcome)]++
		snap.Identifiers += s.doc.Identifiers
		snap.Pruned += s.doc.Pruned
		snap.Unrecognized += s.doc.Unrecognized

		v := s.doc.Duration.Milliseconds()
		ms = append(ms, v)
		sum += v
	}
	slices.Sort(ms)

	snap.Documents = len(ms)
	snap.Latency = Latency{
		MinMs: ms[0],
		MaxMs: ms[len(ms)-1],
		AvgMs: float64(sum) / float64(len(ms)),
		P50Ms: percentile(ms, 50),
		P95Ms: percentile(ms, 95),
		P99Ms: percentile(ms, 99),
	}
	return snap
}

func (c *Collector) pruneLocked(now time.Time) {
	cutoff := now.Add(-c.window)
	c.samples = slices.DeleteFunc(c.samples, func(s sample) bool {
		return s.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sorted[0])
	}
	if pct >= 100 {
		return float64(sorted[len(sorted)-1])
	}

	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := index - float64(lower)
	lo := float64(sorted[lower])
	hi := float64(sorted[upper])
	return lo + ((hi - lo) * weight)
}
