package gaia2read

import (
	"log/slog"

	"github.com/jkim117/gaia2read/internal/resource"
)

// ResourceLimits bounds the memory, zone-scan concurrency and remote IO a
// Catalog may use. Zero fields are unlimited (one scan slot for
// MaxConcurrentScans).
type ResourceLimits = resource.Config

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	parallelism      int
	limits           *ResourceLimits
	blockCacheBytes  int64
	blockSize        int64
	ioBytesPerSec    int64
}

// Option configures a Catalog.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &gaia2read.BasicMetricsCollector{}
//	cat, _ := gaia2read.OpenLocal(root, gaia2read.WithMetricsCollector(metrics))
//	// ... use cat ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, scanned: %d\n", stats.SearchCount, stats.RecordsScanned)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := gaia2read.NewJSONLogger(slog.LevelInfo)
//	cat, _ := gaia2read.OpenLocal(root, gaia2read.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithParallelism scans up to n zone files at once during positional
// queries. Results keep the sequential order. n <= 1 disables it.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithResourceLimits bounds the resources the Catalog uses across all
// concurrent calls.
func WithResourceLimits(limits ResourceLimits) Option {
	return func(o *options) {
		o.limits = &limits
	}
}

// WithBlockCache puts an LRU block cache of the given capacity in bytes in
// front of the store. Use it for remote stores; local stores are
// memory-mapped and gain nothing from it.
func WithBlockCache(capacityBytes int64) Option {
	return func(o *options) {
		o.blockCacheBytes = capacityBytes
	}
}

// WithBlockSize sets the block size of the cache configured by
// WithBlockCache. Default: 64 KiB.
func WithBlockSize(bytes int64) Option {
	return func(o *options) {
		o.blockSize = bytes
	}
}

// WithIORateLimit caps the bytes per second fetched from the store through
// the block cache.
func WithIORateLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioBytesPerSec = bytesPerSec
	}
}
