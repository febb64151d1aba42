package zone

import (
	"context"
	"fmt"
	"slices"

	"github.com/jkim117/gaia2read/blobstore"
	"github.com/jkim117/gaia2read/codec"
	"github.com/jkim117/gaia2read/model"
)

// Encode sorts stars by RA and returns the encoded zone file together with
// the index of each input star in the encoded record order. The input slice
// is not modified.
func Encode(stars []model.Star) ([]byte, []int) {
	order := make([]int, len(stars))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		ra, rb := stars[a].RA, stars[b].RA
		switch {
		case ra < rb:
			return -1
		case ra > rb:
			return 1
		}
		return 0
	})

	var header [Subzones]int32
	for _, i := range order {
		header[SubzoneForRA(stars[i].RA)]++
	}
	for s := 1; s < Subzones; s++ {
		header[s] += header[s-1]
	}

	buf := make([]byte, 0, codec.HeaderSize+len(stars)*codec.RecordSize)
	buf = codec.AppendHeader(buf, &header)
	for _, i := range order {
		buf = codec.AppendStar(buf, &stars[i])
	}
	return buf, order
}

// Write encodes stars as zone file zone and publishes it. Every star must
// belong to the zone. It returns one ID partition entry per star giving
// its position in the written file.
func Write(ctx context.Context, store blobstore.WritableStore, zone int, stars []model.Star) ([]model.IDPartitionEntry, error) {
	if zone < 1 || zone > Count {
		return nil, fmt.Errorf("zone %d out of range [1, %d]", zone, Count)
	}
	for i := range stars {
		if z := ForDec(stars[i].Dec); z != zone {
			return nil, fmt.Errorf("star %d (dec %.6f) belongs to zone %d, not %d", stars[i].SourceID, stars[i].Dec, z, zone)
		}
		if stars[i].RA < 0 || stars[i].RA > 360 {
			return nil, fmt.Errorf("star %d: ra %.6f outside [0, 360]", stars[i].SourceID, stars[i].RA)
		}
	}

	data, order := Encode(stars)
	if err := store.Put(ctx, Name(zone), data); err != nil {
		return nil, fmt.Errorf("write %s: %w", Name(zone), err)
	}

	entries := make([]model.IDPartitionEntry, len(order))
	for pos, i := range order {
		entries[pos] = model.IDPartitionEntry{
			SourceID: stars[i].SourceID,
			Position: OffsetOf(int64(pos)),
			Zone:     int32(zone),
		}
	}
	return entries, nil
}
