// Package idindex resolves catalog identifiers.
//
// Two kinds of sorted tables back it. The Gaia ID partitions
// (Gaia2Bin/IDSTSort/id1..id9) map a source_id to the zone file and byte
// position of its record; each partition holds the ids with one leading
// decimal digit and is ordered by the ids' decimal strings, not their
// numeric values. The cross-reference tables (Gaia2Mass/ID*Sort) hold one
// {gaia, tmass, hat} triple per object, sorted numerically by the scheme
// named in the file.
//
// Both are searched in place with bisection; nothing is loaded up front.
package idindex
