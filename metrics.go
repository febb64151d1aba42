package gaia2read

import (
	"sync/atomic"
	"time"

	"github.com/jkim117/gaia2read/query"
)

// QueryStats describes the work done by one positional query.
type QueryStats = query.Stats

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// prometheus subpackage provides one for Prometheus.
type MetricsCollector interface {
	// RecordCount is called after each StarPosCount.
	RecordCount(stats QueryStats, duration time.Duration, err error)

	// RecordSearch is called after each StarPosSearch.
	RecordSearch(stats QueryStats, duration time.Duration, err error)

	// RecordLookup is called after each Gaia ID lookup.
	RecordLookup(duration time.Duration, err error)

	// RecordTranslate is called after each identifier translation.
	// count is the number of identifiers in the call.
	RecordTranslate(count int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCount(QueryStats, time.Duration, error)  {}
func (NoopMetricsCollector) RecordSearch(QueryStats, time.Duration, error) {}
func (NoopMetricsCollector) RecordLookup(time.Duration, error)             {}
func (NoopMetricsCollector) RecordTranslate(int, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CountCount       atomic.Int64
	CountErrors      atomic.Int64
	SearchCount      atomic.Int64
	SearchErrors     atomic.Int64
	SearchTotalNanos atomic.Int64
	ZonesScanned     atomic.Int64
	RecordsScanned   atomic.Int64
	RecordsReturned  atomic.Int64
	LookupCount      atomic.Int64
	LookupErrors     atomic.Int64
	TranslateCount   atomic.Int64
	TranslateIDs     atomic.Int64
	TranslateErrors  atomic.Int64
}

// RecordCount implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCount(st QueryStats, duration time.Duration, err error) {
	b.CountCount.Add(1)
	b.ZonesScanned.Add(st.Zones)
	b.RecordsScanned.Add(st.Scanned)
	if err != nil {
		b.CountErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(st QueryStats, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	b.ZonesScanned.Add(st.Zones)
	b.RecordsScanned.Add(st.Scanned)
	b.RecordsReturned.Add(st.Accepted)
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(duration time.Duration, err error) {
	b.LookupCount.Add(1)
	if err != nil {
		b.LookupErrors.Add(1)
	}
}

// RecordTranslate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTranslate(count int, duration time.Duration, err error) {
	b.TranslateCount.Add(1)
	b.TranslateIDs.Add(int64(count))
	if err != nil {
		b.TranslateErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CountCount:      b.CountCount.Load(),
		CountErrors:     b.CountErrors.Load(),
		SearchCount:     b.SearchCount.Load(),
		SearchErrors:    b.SearchErrors.Load(),
		SearchAvgNanos:  b.getAvgSearchNanos(),
		ZonesScanned:    b.ZonesScanned.Load(),
		RecordsScanned:  b.RecordsScanned.Load(),
		RecordsReturned: b.RecordsReturned.Load(),
		LookupCount:     b.LookupCount.Load(),
		LookupErrors:    b.LookupErrors.Load(),
		TranslateCount:  b.TranslateCount.Load(),
		TranslateIDs:    b.TranslateIDs.Load(),
		TranslateErrors: b.TranslateErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgSearchNanos() int64 {
	count := b.SearchCount.Load()
	if count == 0 {
		return 0
	}
	return b.SearchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CountCount      int64
	CountErrors     int64
	SearchCount     int64
	SearchErrors    int64
	SearchAvgNanos  int64
	ZonesScanned    int64
	RecordsScanned  int64
	RecordsReturned int64
	LookupCount     int64
	LookupErrors    int64
	TranslateCount  int64
	TranslateIDs    int64
	TranslateErrors int64
}
