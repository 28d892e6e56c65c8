package infra

import (
	"sync/atomic"
	"time"

	"limitup_go/internal/domain"
)

// Metrics counts calculator outcomes. Safe for concurrent use.
type Metrics struct {
	// Counters
	calculations   atomic.Uint64
	invalidPrice   atomic.Uint64
	invalidSegment atomic.Uint64
	invalidCount   atomic.Uint64
	otherErrors    atomic.Uint64

	// Latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	lastErrorUnixNano atomic.Int64
}

// GlobalMetrics is the process-wide metrics instance.
var GlobalMetrics = &Metrics{}

// RecordCalculation records a successful calculation with latency.
func (m *Metrics) RecordCalculation(latencyNs int64) {
	m.calculations.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// RecordError records a failed calculation, bucketed by validation kind.
func (m *Metrics) RecordError(err error) {
	if err == nil {
		return
	}
	switch domain.KindOf(err) {
	case domain.InvalidPrice:
		m.invalidPrice.Add(1)
	case domain.InvalidSegment:
		m.invalidSegment.Add(1)
	case domain.InvalidCount:
		m.invalidCount.Add(1)
	default:
		m.otherErrors.Add(1)
	}
	m.lastErrorUnixNano.Store(time.Now().UnixNano())
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	Calculations   uint64
	InvalidPrice   uint64
	InvalidSegment uint64
	InvalidCount   uint64
	OtherErrors    uint64
	AvgLatencyNs   int64
	LastErrorAt    time.Time
	Timestamp      time.Time
}

// ErrorsTotal sums all failure buckets.
func (s MetricsSnapshot) ErrorsTotal() uint64 {
	return s.InvalidPrice + s.InvalidSegment + s.InvalidCount + s.OtherErrors
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	var lastErr time.Time
	if ns := m.lastErrorUnixNano.Load(); ns != 0 {
		lastErr = time.Unix(0, ns)
	}

	return MetricsSnapshot{
		Calculations:   m.calculations.Load(),
		InvalidPrice:   m.invalidPrice.Load(),
		InvalidSegment: m.invalidSegment.Load(),
		InvalidCount:   m.invalidCount.Load(),
		OtherErrors:    m.otherErrors.Load(),
		AvgLatencyNs:   avgLatency,
		LastErrorAt:    lastErr,
		Timestamp:      time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.calculations.Store(0)
	m.invalidPrice.Store(0)
	m.invalidSegment.Store(0)
	m.invalidCount.Store(0)
	m.otherErrors.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
	m.lastErrorUnixNano.Store(0)
}
