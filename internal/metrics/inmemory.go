package metrics

import (
	"sync"
	"sync/atomic"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	SignupsCreated    uint64
	SignupsRejected   map[string]uint64
	RateLimited       uint64
	AdminAuthFailures uint64
	Exports           uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	signupsCreated    uint64
	rateLimited       uint64
	adminAuthFailures uint64
	exports           uint64

	mu       sync.Mutex
	rejected map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{rejected: make(map[string]uint64)}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	rejected := make(map[string]uint64, len(m.rejected))
	for k, v := range m.rejected {
		rejected[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		SignupsCreated:    atomic.LoadUint64(&m.signupsCreated),
		SignupsRejected:   rejected,
		RateLimited:       atomic.LoadUint64(&m.rateLimited),
		AdminAuthFailures: atomic.LoadUint64(&m.adminAuthFailures),
		Exports:           atomic.LoadUint64(&m.exports),
	}
}

// IncSignupCreated increments the created counter.
func (m *InMemoryRecorder) IncSignupCreated() {
	atomic.AddUint64(&m.signupsCreated, 1)
}

// IncSignupRejected increments the rejection counter for reason.
func (m *InMemoryRecorder) IncSignupRejected(reason string) {
	m.mu.Lock()
	m.rejected[reason]++
	m.mu.Unlock()
}

// IncRateLimited increments the rate limited counter.
func (m *InMemoryRecorder) IncRateLimited() {
	atomic.AddUint64(&m.rateLimited, 1)
}

// IncAdminAuthFailure increments the failed admin auth counter.
func (m *InMemoryRecorder) IncAdminAuthFailure() {
	atomic.AddUint64(&m.adminAuthFailures, 1)
}

// IncExport increments the CSV export counter.
func (m *InMemoryRecorder) IncExport() {
	atomic.AddUint64(&m.exports, 1)
}
