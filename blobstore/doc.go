// Package blobstore provides storage abstraction for the catalog's
// immutable files: zone files, source_id partitions and cross-reference
// tables.
//
// Blob names are slash-separated paths relative to the catalog root, for
// example "Gaia2Bin/sortedBin/z451" or "Gaia2Mass/IDgaiaSort".
//
// # Built-in Implementations
//
//   - LocalStore: local directory; blobs are memory-mapped (Mappable)
//   - MemoryStore: in-memory map, for tests and staging
//   - CachingStore: LRU block cache in front of any store, with IO rate limiting
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Custom Implementations
//
// A read-only backend only needs BlobStore and Blob:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	}
//
//	type Blob interface {
//	    ReadAt(ctx, p, off) (int, error)
//	    ReadRange(ctx, off, length) (io.ReadCloser, error)
//	    Size() int64
//	    Close() error
//	}
//
// Implement WritableStore (Put) to let the catalog builder publish to it,
// and Mappable when the blob's bytes are addressable without copying.
package blobstore
