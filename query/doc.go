// Package query answers positional queries against the zone files.
//
// A query is turned into a Footprint: a declination band plus an RA
// interval that may wrap through 0°, padded for the largest possible proper
// motion when an epoch is requested. The Engine walks every zone the band
// touches, bisects each zone for the RA interval, scans the resulting byte
// range and hands each record in the band to a Filter, which applies the
// magnitude limits, propagates the position and tests it in the tangent
// plane of the query center.
//
// Results come out ordered by zone and then by position within the zone,
// whether or not zones are scanned in parallel.
package query
