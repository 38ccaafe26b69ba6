package collect

import (
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// GateMetrics represents the current sampling load.
type GateMetrics struct {
	// Active is the number of samples currently in flight.
	Active int64
	// Max is the maximum number of concurrent samples allowed.
	Max int64
	// Overruns is the number of ticks skipped because the previous sample
	// was still running.
	Overruns int64
}

// Gate bounds the number of in-flight device samples. adb round-trips can
// outlast the sampling interval under load; the gate lets the sampler skip a
// tick instead of queueing commands behind each other, and counts how often
// that happened so the run manifest can report it.
type Gate struct {
	sem      *semaphore.Weighted
	max      int64
	active   atomic.Int64
	overruns atomic.Int64
}

// NewGate creates a gate allowing max concurrent samples.
func NewGate(max int64) *Gate {
	return &Gate{
		sem: semaphore.NewWeighted(max),
		max: max,
	}
}

// TryAcquire attempts to acquire a sample slot without blocking. The caller
// MUST call Release when the sample completes.
func (g *Gate) TryAcquire() bool {
	if g.sem.TryAcquire(1) {
		g.active.Add(1)
		return true
	}
	return false
}

// Release releases a sample slot.
func (g *Gate) Release() {
	g.active.Add(-1)
	g.sem.Release(1)
}

// Overrun records a skipped tick.
func (g *Gate) Overrun() {
	g.overruns.Add(1)
}

// Metrics returns the current load statistics.
func (g *Gate) Metrics() GateMetrics {
	return GateMetrics{
		Active:   g.active.Load(),
		Max:      g.max,
		Overruns: g.overruns.Load(),
	}
}
