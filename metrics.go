package sparsegrid

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus. Allocation itself is deliberately not instrumented: it is the
// hot path and its counters are already exposed by Stat snapshots.
type MetricsCollector interface {
	// RecordArenaConstruct is called when a kind's arena is first built.
	RecordArenaConstruct(kind KindID, capacity uint64)

	// RecordClear is called after each collective recycle pass.
	// recycled is the number of slots pushed to the recycle pool by the pass.
	RecordClear(kind KindID, recycled uint64, duration time.Duration)

	// RecordDump is called after each diagnostics dump.
	// err is nil if successful.
	RecordDump(kinds int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordArenaConstruct(KindID, uint64)       {}
func (NoopMetricsCollector) RecordClear(KindID, uint64, time.Duration) {}
func (NoopMetricsCollector) RecordDump(int, time.Duration, error)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ArenasConstructed atomic.Int64
	ClearPasses       atomic.Int64
	ClearTotalNanos   atomic.Int64
	SlotsRecycled     atomic.Int64
	DumpCount         atomic.Int64
	DumpErrors        atomic.Int64
}

// RecordArenaConstruct implements MetricsCollector.
func (b *BasicMetricsCollector) RecordArenaConstruct(kind KindID, capacity uint64) {
	b.ArenasConstructed.Add(1)
}

// RecordClear implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClear(kind KindID, recycled uint64, duration time.Duration) {
	b.ClearPasses.Add(1)
	b.ClearTotalNanos.Add(duration.Nanoseconds())
	b.SlotsRecycled.Add(int64(recycled))
}

// RecordDump implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDump(kinds int, duration time.Duration, err error) {
	b.DumpCount.Add(1)
	if err != nil {
		b.DumpErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ArenasConstructed: b.ArenasConstructed.Load(),
		ClearPasses:       b.ClearPasses.Load(),
		ClearAvgNanos:     b.getAvgClearNanos(),
		SlotsRecycled:     b.SlotsRecycled.Load(),
		DumpCount:         b.DumpCount.Load(),
		DumpErrors:        b.DumpErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgClearNanos() int64 {
	count := b.ClearPasses.Load()
	if count == 0 {
		return 0
	}
	return b.ClearTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ArenasConstructed int64
	ClearPasses       int64
	ClearAvgNanos     int64
	SlotsRecycled     int64
	DumpCount         int64
	DumpErrors        int64
}
