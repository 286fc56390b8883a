package voctree

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    addCounter     prometheus.Counter
//	    queryHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordAdd(duration time.Duration, indexed bool) {
//	    p.addCounter.Inc()
//	    // ... record duration, skipped adds, etc.
//	}
type MetricsCollector interface {
	// RecordAdd is called after each add operation. indexed is false when
	// the image was skipped for having no features.
	RecordAdd(duration time.Duration, indexed bool)

	// RecordQuery is called after each query operation. matches is the
	// number of results returned, err is nil if successful.
	RecordQuery(limit, matches int, duration time.Duration, err error)

	// RecordClear is called after each database reset.
	RecordClear()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(time.Duration, bool)              {}
func (NoopMetricsCollector) RecordQuery(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordClear()                               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AddCount        atomic.Int64
	AddSkipped      atomic.Int64
	AddTotalNanos   atomic.Int64
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryMatches    atomic.Int64
	QueryTotalNanos atomic.Int64
	ClearCount      atomic.Int64
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(duration time.Duration, indexed bool) {
	b.AddCount.Add(1)
	b.AddTotalNanos.Add(duration.Nanoseconds())
	if !indexed {
		b.AddSkipped.Add(1)
	}
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(limit, matches int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryMatches.Add(int64(matches))
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// RecordClear implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClear() {
	b.ClearCount.Add(1)
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AddCount      int64
	AddSkipped    int64
	AddAvgNanos   int64
	QueryCount    int64
	QueryErrors   int64
	QueryMatches  int64
	QueryAvgNanos int64
	ClearCount    int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AddCount:      b.AddCount.Load(),
		AddSkipped:    b.AddSkipped.Load(),
		AddAvgNanos:   avg(b.AddTotalNanos.Load(), b.AddCount.Load()),
		QueryCount:    b.QueryCount.Load(),
		QueryErrors:   b.QueryErrors.Load(),
		QueryMatches:  b.QueryMatches.Load(),
		QueryAvgNanos: avg(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
		ClearCount:    b.ClearCount.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}
