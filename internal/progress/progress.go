// Package progress coordinates and renders sampling progress.
//
// Samplers publish a monotonically increasing counter each. The Monitor sums
// those counters at a fixed cadence; the sum may be slightly stale, which only
// affects the displayed estimate, never the result.
package progress

import (
	"context"
	"time"
)

// DefaultInterval is the polling cadence used when none is configured.
const DefaultInterval = 100 * time.Millisecond

// Counter is a progress source safe to read from any goroutine.
type Counter interface {
	Progress() uint64
}

// Report is one observation of the summed counters.
type Report struct {
	Done    uint64
	Total   uint64
	Elapsed time.Duration
}

// Ratio returns Done/Total clamped to [0, 1].
func (r Report) Ratio() float64 {
	if r.Total == 0 {
		return 1
	}
	return min(float64(r.Done)/float64(r.Total), 1)
}

// Remaining estimates the time left by extrapolating the rate so far.
// It returns false while no progress has been made.
func (r Report) Remaining() (time.Duration, bool) {
	ratio := r.Ratio()
	if ratio == 0 {
		return 0, false
	}
	total := time.Duration(float64(r.Elapsed) / ratio)
	return max(total-r.Elapsed, 0), true
}

// Sum returns the total of all counters.
func Sum[C Counter](counters []C) uint64 {
	var sum uint64
	for _, c := range counters {
		sum += c.Progress()
	}
	return sum
}

// Monitor polls counters until their sum reaches total.
type Monitor[C Counter] struct {
	counters []C
	total    uint64
	interval time.Duration
	now      func() time.Time
}

// NewMonitor returns a monitor over counters. A non-positive interval selects
// DefaultInterval.
func NewMonitor[C Counter](counters []C, total uint64, interval time.Duration) *Monitor[C] {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor[C]{
		counters: counters,
		total:    total,
		interval: interval,
		now:      time.Now,
	}
}

// Run calls report once per interval with the current sum, and a final time
// when the sum reaches the total. It returns nil once the total is reached,
// or the context's error if ctx ends first.
func (m *Monitor[C]) Run(ctx context.Context, report func(Report)) error {
	start := m.now()
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		r := Report{
			Done:    Sum(m.counters),
			Total:   m.total,
			Elapsed: m.now().Sub(start),
		}
		if report != nil {
			report(r)
		}
		if r.Done >= m.total {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
