package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	ordersSubmitted atomic.Uint64
	ordersFailed    atomic.Uint64

	gridLevelsPlaced  atomic.Uint64
	gridLevelsSkipped atomic.Uint64

	twapSlicesExecuted atomic.Uint64
	twapRunsAborted    atomic.Uint64
}

// RecordOrderSubmitted records a successfully accepted order.
func (m *Metrics) RecordOrderSubmitted() {
	m.ordersSubmitted.Add(1)
}

// RecordOrderFailed records a submission that errored out.
func (m *Metrics) RecordOrderFailed() {
	m.ordersFailed.Add(1)
}

// RecordGridLevelPlaced records one resting grid level on the book.
func (m *Metrics) RecordGridLevelPlaced() {
	m.gridLevelsPlaced.Add(1)
}

// RecordGridLevelSkipped records a grid level that failed and was skipped.
func (m *Metrics) RecordGridLevelSkipped() {
	m.gridLevelsSkipped.Add(1)
}

// RecordTWAPSliceExecuted records one executed TWAP slice.
func (m *Metrics) RecordTWAPSliceExecuted() {
	m.twapSlicesExecuted.Add(1)
}

// RecordTWAPRunAborted records a TWAP run that halted before its last slice.
func (m *Metrics) RecordTWAPRunAborted() {
	m.twapRunsAborted.Add(1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	OrdersSubmitted    uint64
	OrdersFailed       uint64
	GridLevelsPlaced   uint64
	GridLevelsSkipped  uint64
	TWAPSlicesExecuted uint64
	TWAPRunsAborted    uint64
	Timestamp          time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		OrdersSubmitted:    m.ordersSubmitted.Load(),
		OrdersFailed:       m.ordersFailed.Load(),
		GridLevelsPlaced:   m.gridLevelsPlaced.Load(),
		GridLevelsSkipped:  m.gridLevelsSkipped.Load(),
		TWAPSlicesExecuted: m.twapSlicesExecuted.Load(),
		TWAPRunsAborted:    m.twapRunsAborted.Load(),
		Timestamp:          time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.ordersSubmitted.Store(0)
	m.ordersFailed.Store(0)
	m.gridLevelsPlaced.Store(0)
	m.gridLevelsSkipped.Store(0)
	m.twapSlicesExecuted.Store(0)
	m.twapRunsAborted.Store(0)
}
