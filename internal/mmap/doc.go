// Package mmap provides read-only memory-mapped access to catalog files.
//
// Zone files and cross-reference tables are large, immutable and read with
// a mix of binary-search probes and sequential scans, so they are mapped
// instead of read through the page cache with read(2).
//
//	m, err := mmap.Open("Gaia2Bin/sortedBin/z451")
//	if err != nil { ... }
//	defer m.Close()
//
//	rec, _ := m.Range(off, 278)
//	_ = m.AdviseRange(lo, hi-lo, mmap.AccessSequential)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) hints
//   - Windows: CreateFileMapping/MapViewOfFile (hints are no-ops)
//
// # Thread Safety
//
// A Mapping is safe for concurrent reads. Close must not race with reads;
// slices returned by Bytes and Range are invalid after Close.
package mmap
