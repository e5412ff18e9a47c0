package countdown

import (
	"sync"
	"sync/atomic"
	"time"
)

// MetricsCollector records engine activity.
type MetricsCollector interface {
	RecordTick(kind Kind)
	RecordLoad(success bool, duration time.Duration)
	RecordSuperseded()
}

// NoOpMetricsCollector is used when no collector is configured.
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordTick(kind Kind)                            {}
func (NoOpMetricsCollector) RecordLoad(success bool, duration time.Duration) {}
func (NoOpMetricsCollector) RecordSuperseded()                               {}

// CounterMetrics keeps in-process counters for the gateway's info endpoint.
type CounterMetrics struct {
	ticks        atomic.Uint64
	loads        atomic.Uint64
	loadFailures atomic.Uint64
	superseded   atomic.Uint64

	mu           sync.Mutex
	lastKind     Kind
	lastLoadTook time.Duration
}

func NewCounterMetrics() *CounterMetrics {
	return &CounterMetrics{}
}

func (m *CounterMetrics) RecordTick(kind Kind) {
	m.ticks.Add(1)
	m.mu.Lock()
	m.lastKind = kind
	m.mu.Unlock()
}

func (m *CounterMetrics) RecordLoad(success bool, duration time.Duration) {
	m.loads.Add(1)
	if !success {
		m.loadFailures.Add(1)
	}
	m.mu.Lock()
	m.lastLoadTook = duration
	m.mu.Unlock()
}

func (m *CounterMetrics) RecordSuperseded() {
	m.superseded.Add(1)
}

// Stats returns a snapshot of the counters.
func (m *CounterMetrics) Stats() map[string]interface{} {
	m.mu.Lock()
	lastKind := m.lastKind
	lastLoadTook := m.lastLoadTook
	m.mu.Unlock()

	return map[string]interface{}{
		"ticks":            m.ticks.Load(),
		"loads":            m.loads.Load(),
		"load_failures":    m.loadFailures.Load(),
		"superseded_loads": m.superseded.Load(),
		"last_phase":       string(lastKind),
		"last_load_ms":     lastLoadTook.Milliseconds(),
	}
}
