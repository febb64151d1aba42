// Package model defines the catalog's core types.
//
// # Records
//
//   - Star: one catalog object (astrometry, photometry, astrophysical parameters)
//   - IDPartitionEntry: source_id -> (zone, byte position) index row
//   - CrossIDEntry: one Gaia/2MASS/HAT identifier triple
//
// # Identifiers
//
// IDScheme is a closed set of identifier schemes (Gaia, 2MASS, HAT). Each
// scheme parses its textual form into the packed int64 stored in the
// cross-reference tables and formats it back:
//
//	id, err := model.TMass.Parse("2MASS J12345678+1234567")
//	fmt.Println(model.TMass.Format(id)) // 12345678+1234567
//
// # Sentinels
//
// Magnitude-like reals use NotAvailable (3.55) for "no value". Use
// IsNotAvailable to test for it; float32 fields round-trip within tolerance.
package model
