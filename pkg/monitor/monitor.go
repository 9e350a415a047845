package monitor

import (
	"sync"
	"sync/atomic"
)

// DefaultLogCapacity is the ring size used when the configuration does not
// specify one.
const DefaultLogCapacity = 1000

// Monitor aggregates request outcomes into atomic tallies and a bounded
// log ring. It is safe for concurrent use from many in-flight requests:
// concurrent Record calls never lose an increment or corrupt ring order.
type Monitor struct {
	// Tallies are lock-free. The total is derived as success+error when
	// read, so every snapshot satisfies total == success + error even
	// while records are in flight.
	success atomic.Uint64
	errors  atomic.Uint64

	mu   sync.Mutex
	ring *ring
}

// New creates a monitor with the given log ring capacity. A non-positive
// capacity falls back to DefaultLogCapacity.
func New(logCapacity int) *Monitor {
	if logCapacity <= 0 {
		logCapacity = DefaultLogCapacity
	}
	return &Monitor{
		ring: newRing(logCapacity),
	}
}

// Record folds one outcome into the counters and appends it to the log
// ring, evicting the oldest entry at capacity.
func (m *Monitor) Record(outcome Outcome) {
	if outcome.Succeeded {
		m.success.Add(1)
	} else {
		m.errors.Add(1)
	}

	m.mu.Lock()
	m.ring.push(outcome)
	m.mu.Unlock()
}

// Stats returns a consistent snapshot of the aggregate counters.
func (m *Monitor) Stats() Stats {
	success := m.success.Load()
	errs := m.errors.Load()
	return Stats{
		TotalRequests: success + errs,
		SuccessCount:  success,
		ErrorCount:    errs,
	}
}

// Logs returns the most recent entries, newest first, truncated to
// min(limit, entries held). A non-positive limit returns nil.
func (m *Monitor) Logs(limit int) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ring.recent(limit)
}

// LogCapacity returns the configured ring capacity.
func (m *Monitor) LogCapacity() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ring.entries)
}
