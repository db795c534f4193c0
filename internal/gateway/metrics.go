package gateway

import (
	"sync/atomic"
	"time"
)

// Metrics tracks gateway-level counters using atomic operations for
// lock-free concurrency.
type Metrics struct {
	queries         atomic.Int64
	failures        atomic.Int64
	tasksSubmitted  atomic.Int64
	totalIterations atomic.Int64
	totalLatency    atomic.Int64 // nanoseconds
}

// RecordQuery records a completed agent run.
func (m *Metrics) RecordQuery(iterations int, latency time.Duration) {
	m.queries.Add(1)
	m.totalIterations.Add(int64(iterations))
	m.totalLatency.Add(int64(latency))
}

// RecordFailure records a run that ended in an error.
func (m *Metrics) RecordFailure() {
	m.failures.Add(1)
}

// RecordTask records an async query submission.
func (m *Metrics) RecordTask() {
	m.tasksSubmitted.Add(1)
}

// Snapshot returns a consistent point-in-time view of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	queries := m.queries.Load()
	snap := MetricsSnapshot{
		Queries:         queries,
		Failures:        m.failures.Load(),
		TasksSubmitted:  m.tasksSubmitted.Load(),
		TotalIterations: m.totalIterations.Load(),
	}
	if queries > 0 {
		snap.AvgLatency = time.Duration(m.totalLatency.Load() / queries)
	}
	return snap
}

// MetricsSnapshot is a serializable point-in-time metrics view.
type MetricsSnapshot struct {
	Queries         int64         `json:"queries"`
	Failures        int64         `json:"failures"`
	TasksSubmitted  int64         `json:"tasks_submitted"`
	TotalIterations int64         `json:"total_iterations"`
	AvgLatency      time.Duration `json:"avg_latency_ns"`
}
