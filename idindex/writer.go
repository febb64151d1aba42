package idindex

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jkim117/gaia2read/blobstore"
	"github.com/jkim117/gaia2read/codec"
	"github.com/jkim117/gaia2read/model"
)

// WritePartitions groups entries by partition, sorts each group by the
// decimal string of its ids and publishes all nine partition files, empty
// ones included.
func WritePartitions(ctx context.Context, store blobstore.WritableStore, entries []model.IDPartitionEntry) error {
	groups := make([][]model.IDPartitionEntry, Partitions+1)
	for _, e := range entries {
		p := Partition(e.SourceID)
		groups[p] = append(groups[p], e)
	}

	for p := 1; p <= Partitions; p++ {
		g := groups[p]
		keys := make([]string, len(g))
		for i, e := range g {
			keys[i] = strconv.FormatInt(e.SourceID, 10)
		}
		idx := make([]int, len(g))
		for i := range idx {
			idx[i] = i
		}
		slices.SortStableFunc(idx, func(a, b int) int {
			return strings.Compare(keys[a], keys[b])
		})

		buf := make([]byte, 0, len(g)*codec.IDEntrySize)
		for _, i := range idx {
			buf = codec.AppendIDEntry(buf, g[i])
		}
		if err := store.Put(ctx, PartitionName(p), buf); err != nil {
			return fmt.Errorf("write %s: %w", PartitionName(p), err)
		}
	}
	return nil
}

// WriteCrossIDs publishes the three cross-reference tables, each sorted
// numerically by its own scheme.
func WriteCrossIDs(ctx context.Context, store blobstore.WritableStore, entries []model.CrossIDEntry) error {
	sorted := make([]model.CrossIDEntry, len(entries))
	for _, s := range []model.IDScheme{model.Gaia, model.TMass, model.HAT} {
		copy(sorted, entries)
		slices.SortStableFunc(sorted, func(a, b model.CrossIDEntry) int {
			ka, kb := a.Get(s), b.Get(s)
			switch {
			case ka < kb:
				return -1
			case ka > kb:
				return 1
			}
			return 0
		})

		buf := make([]byte, 0, len(sorted)*codec.CrossIDEntrySize)
		for _, e := range sorted {
			buf = codec.AppendCrossIDEntry(buf, e)
		}
		if err := store.Put(ctx, CrossIDName(s), buf); err != nil {
			return fmt.Errorf("write %s: %w", CrossIDName(s), err)
		}
	}
	return nil
}
