package handlepool

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// MetricsCollector defines an interface for collecting pool metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Calls happen synchronously on the goroutine that performs the operation, so
// implementations must be cheap. A collector shared by several pools must be
// safe for concurrent use.
type MetricsCollector interface {
	// RecordInsert is called after each Insert or Emplace. reused reports
	// whether the slot came from the free list.
	RecordInsert(reused bool, err error)

	// RecordErase is called after each Erase or Remove.
	RecordErase(err error)

	// RecordLookup is called after each Get.
	RecordLookup(err error)

	// RecordGrow is called after a chunk allocation attempt.
	RecordGrow(chunks int, bytes int64, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(bool, error)     {}
func (NoopMetricsCollector) RecordErase(error)            {}
func (NoopMetricsCollector) RecordLookup(error)           {}
func (NoopMetricsCollector) RecordGrow(int, int64, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// It is safe for concurrent use; hot counters sit on separate cache lines.
type BasicMetricsCollector struct {
	InsertCount  atomic.Int64
	ReuseCount   atomic.Int64
	InsertErrors atomic.Int64
	_            cpu.CacheLinePad
	EraseCount   atomic.Int64
	EraseErrors  atomic.Int64
	_            cpu.CacheLinePad
	LookupCount  atomic.Int64
	LookupErrors atomic.Int64
	_            cpu.CacheLinePad
	GrowCount    atomic.Int64
	GrowErrors   atomic.Int64
	GrowBytes    atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(reused bool, err error) {
	if err != nil {
		b.InsertErrors.Add(1)
		return
	}
	b.InsertCount.Add(1)
	if reused {
		b.ReuseCount.Add(1)
	}
}

// RecordErase implements MetricsCollector.
func (b *BasicMetricsCollector) RecordErase(err error) {
	if err != nil {
		b.EraseErrors.Add(1)
		return
	}
	b.EraseCount.Add(1)
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(err error) {
	b.LookupCount.Add(1)
	if err != nil {
		b.LookupErrors.Add(1)
	}
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(chunks int, bytes int64, err error) {
	if err != nil {
		b.GrowErrors.Add(1)
		return
	}
	b.GrowCount.Add(1)
	b.GrowBytes.Add(bytes)
}

// BasicMetricsStats is a point-in-time copy of BasicMetricsCollector.
type BasicMetricsStats struct {
	InsertCount  int64
	ReuseCount   int64
	InsertErrors int64
	EraseCount   int64
	EraseErrors  int64
	LookupCount  int64
	LookupErrors int64
	GrowCount    int64
	GrowErrors   int64
	GrowBytes    int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:  b.InsertCount.Load(),
		ReuseCount:   b.ReuseCount.Load(),
		InsertErrors: b.InsertErrors.Load(),
		EraseCount:   b.EraseCount.Load(),
		EraseErrors:  b.EraseErrors.Load(),
		LookupCount:  b.LookupCount.Load(),
		LookupErrors: b.LookupErrors.Load(),
		GrowCount:    b.GrowCount.Load(),
		GrowErrors:   b.GrowErrors.Load(),
		GrowBytes:    b.GrowBytes.Load(),
	}
}

// Reset zeroes all counters.
func (b *BasicMetricsCollector) Reset() {
	b.InsertCount.Store(0)
	b.ReuseCount.Store(0)
	b.InsertErrors.Store(0)
	b.EraseCount.Store(0)
	b.EraseErrors.Store(0)
	b.LookupCount.Store(0)
	b.LookupErrors.Store(0)
	b.GrowCount.Store(0)
	b.GrowErrors.Store(0)
	b.GrowBytes.Store(0)
}
