package cache

import (
	"context"
	"strings"
)

// CacheKind is used to separate key spaces.
type CacheKind uint8

const (
	CacheKindUnknown CacheKind = iota
	CacheKindZone              // zone-file header and record blocks
	CacheKindIDIndex           // source_id partition tables
	CacheKindCrossID           // Gaia/2MASS/HAT cross-reference tables
)

// String returns the kind's label, as used in metrics.
func (k CacheKind) String() string {
	switch k {
	case CacheKindZone:
		return "zone"
	case CacheKindIDIndex:
		return "idindex"
	case CacheKindCrossID:
		return "crossid"
	default:
		return "unknown"
	}
}

// KindForBlob classifies a catalog blob name.
func KindForBlob(name string) CacheKind {
	switch {
	case strings.Contains(name, "sortedBin/"):
		return CacheKindZone
	case strings.Contains(name, "IDSTSort/"):
		return CacheKindIDIndex
	case strings.Contains(name, "Gaia2Mass/"):
		return CacheKindCrossID
	default:
		return CacheKindUnknown
	}
}

// CacheKey identifies one block of one blob.
type CacheKey struct {
	Kind CacheKind
	// Path is the blob name relative to the catalog root.
	Path string
	// Offset is the block index within the blob.
	Offset uint64
}

// BlockCache is a byte-oriented cache for immutable blocks.
// Returned slices must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block. ok=false if missing.
	Get(ctx context.Context, key CacheKey) (b []byte, ok bool)
	// Set caches a block. Implementations may retain b; callers must not modify it.
	Set(ctx context.Context, key CacheKey, b []byte)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key CacheKey) bool)
	// Close releases any resources.
	Close() error
	// Stats returns cache statistics.
	Stats() (hits, misses int64)
}
