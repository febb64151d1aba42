// Package resource governs the shared resources a catalog query consumes.
//
// The Controller manages three budgets:
//
//   - Memory: bytes held by the block cache of remote stores (fail-fast)
//   - Scans: number of zone files scanned concurrently (blocking semaphore)
//   - IO: bytes per second fetched from remote stores (token bucket)
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   256 << 20,
//	    MaxConcurrentScans: 8,
//	    IOLimitBytesPerSec: 64 << 20,
//	})
//
//	if err := rc.AcquireScan(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseScan()
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully; they become no-ops. This
// keeps resource limiting optional without nil checks at call sites.
package resource
