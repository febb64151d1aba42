package idindex

import (
	"context"
	"testing"

	"github.com/jkim117/gaia2read/blobstore"
	"github.com/jkim117/gaia2read/codec"
	"github.com/jkim117/gaia2read/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		id   int64
		want int
	}{
		{1, 1},
		{100, 1},
		{2448271877009859456, 2},
		{5853498713190525696, 5},
		{8000, 8},
		{9, 9},
		{999, 9},
		{0, 9},
		{-5, 9},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Partition(tt.id), "id %d", tt.id)
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Gaia2Bin/IDSTSort/id1", PartitionName(1))
	assert.Equal(t, "Gaia2Mass/IDgaiaSort", CrossIDName(model.Gaia))
	assert.Equal(t, "Gaia2Mass/IDtmassSort", CrossIDName(model.TMass))
	assert.Equal(t, "Gaia2Mass/IDhatSort", CrossIDName(model.HAT))
}

func stores(t *testing.T) map[string]blobstore.WritableStore {
	t.Helper()
	return map[string]blobstore.WritableStore{
		"memory": blobstore.NewMemoryStore(),
		"local":  blobstore.NewLocalStore(t.TempDir()),
	}
}

func TestLookupGaiaID(t *testing.T) {
	ctx := context.Background()
	entries := []model.IDPartitionEntry{
		{SourceID: 109, Position: 5760 + 2*codec.RecordSize, Zone: 3},
		{SourceID: 100, Position: 5760, Zone: 1},
		{SourceID: 101, Position: 5760 + codec.RecordSize, Zone: 2},
	}

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, WritePartitions(ctx, store, entries))
			x := New(store)

			e, err := x.LookupGaiaID(ctx, 101)
			require.NoError(t, err)
			assert.Equal(t, entries[2], e)

			e, err = x.LookupGaiaID(ctx, 109)
			require.NoError(t, err)
			assert.Equal(t, int32(3), e.Zone)

			e, err = x.LookupGaiaID(ctx, 105)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.Equal(t, model.IDPartitionEntry{}, e)

			// Partition 4 exists but is empty.
			_, err = x.LookupGaiaID(ctx, 42)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestLookupGaiaID_LexicographicOrder(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	// Numeric order differs from string order for these.
	ids := []int64{1, 10, 1000, 101, 11, 12, 19999, 2, 1999999999999999999}
	var entries []model.IDPartitionEntry
	for i, id := range ids {
		entries = append(entries, model.IDPartitionEntry{SourceID: id, Position: int64(i), Zone: int32(i + 1)})
	}
	require.NoError(t, WritePartitions(ctx, store, entries))

	blob, err := store.Open(ctx, PartitionName(1))
	require.NoError(t, err)
	buf := make([]byte, blob.Size())
	require.NoError(t, blobstore.ReadFull(ctx, blob, buf, 0))
	var got []int64
	for off := 0; off < len(buf); off += codec.IDEntrySize {
		got = append(got, codec.SourceID(buf[off:]))
	}
	assert.Equal(t, []int64{1, 10, 1000, 101, 11, 12, 19999, 1999999999999999999}, got)

	x := New(store)
	for i, id := range ids {
		e, err := x.LookupGaiaID(ctx, id)
		require.NoError(t, err, "id %d", id)
		assert.Equal(t, int32(i+1), e.Zone)
	}
}

func TestLookupGaiaID_MissingPartition(t *testing.T) {
	_, err := New(blobstore.NewMemoryStore()).LookupGaiaID(context.Background(), 100)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

var crossIDs = []model.CrossIDEntry{
	{Gaia: 5000, TMass: 1063541000113500, HAT: 1234567123},
	{Gaia: 3000, TMass: 2101010100000000, HAT: 0},
	{Gaia: 4000, TMass: 0, HAT: 7654321321},
	{Gaia: 1000, TMass: 1000000000000001, HAT: 1111111111},
}

func TestTranslateID(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, WriteCrossIDs(ctx, store, crossIDs))
			x := New(store)

			schemes := []model.IDScheme{model.Gaia, model.TMass, model.HAT}
			for _, e := range crossIDs {
				for _, from := range schemes {
					if e.Get(from) == 0 {
						continue
					}
					for _, to := range schemes {
						got, err := x.TranslateID(ctx, e.Get(from), from, to)
						require.NoError(t, err)
						assert.Equal(t, e.Get(to), got, "%s -> %s", from, to)
					}
				}
			}

			_, err := x.TranslateID(ctx, 2000, model.Gaia, model.TMass)
			assert.ErrorIs(t, err, ErrNotFound)

			id, err := x.TranslateID(ctx, 2000, model.Gaia, model.Gaia)
			require.NoError(t, err)
			assert.Equal(t, int64(2000), id)
		})
	}
}

func TestTranslateMany(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, WriteCrossIDs(ctx, store, crossIDs))
	x := New(store)

	got, err := x.TranslateMany(ctx, []int64{1000, 2000, 4000, 5000}, model.Gaia, model.HAT)
	require.NoError(t, err)
	assert.Equal(t, []int64{1111111111, 0, 7654321321, 1234567123}, got)

	got, err = x.TranslateMany(ctx, []int64{7, 8}, model.HAT, model.HAT)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8}, got)

	got, err = x.TranslateMany(ctx, nil, model.Gaia, model.TMass)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriteCrossIDs_Sorted(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, WriteCrossIDs(ctx, store, crossIDs))

	for _, s := range []model.IDScheme{model.Gaia, model.TMass, model.HAT} {
		blob, err := store.Open(ctx, CrossIDName(s))
		require.NoError(t, err)
		require.Equal(t, int64(len(crossIDs)*codec.CrossIDEntrySize), blob.Size())

		buf := make([]byte, blob.Size())
		require.NoError(t, blobstore.ReadFull(ctx, blob, buf, 0))
		prev := int64(-1)
		for off := 0; off < len(buf); off += codec.CrossIDEntrySize {
			k := codec.CrossIDKey(buf[off:], s)
			assert.GreaterOrEqual(t, k, prev, "%s", s)
			prev = k
		}
	}
}
