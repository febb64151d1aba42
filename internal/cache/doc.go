// Package cache provides an LRU cache for blocks of catalog files fetched
// from remote stores.
//
// Keys name the blob and the block index within it; the key kind separates
// zone-file blocks from index-table blocks so callers can invalidate or size
// them independently. Memory is optionally accounted against a
// resource.Controller.
package cache
