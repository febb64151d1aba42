// Package testutil provides testing utilities for gaia2read.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG and generators for synthetic
// catalog records.
//
// # Random Stars
//
//	rng := testutil.NewRNG(seed)
//	stars := rng.StarsInBox(1000, 10, 20, -5, 5) // ra 10..20, dec -5..5
//	s := testutil.NewStar(42, 10.5, 0.25)
package testutil
