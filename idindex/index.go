package idindex

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jkim117/gaia2read/blobstore"
	"github.com/jkim117/gaia2read/codec"
	"github.com/jkim117/gaia2read/model"
)

// Partitions is the number of Gaia ID partition files.
const Partitions = 9

// ErrNotFound is returned when an identifier is absent from its table.
var ErrNotFound = errors.New("idindex: identifier not found")

// PartitionName returns the blob name of partition p (1..9).
func PartitionName(p int) string {
	return fmt.Sprintf("Gaia2Bin/IDSTSort/id%d", p)
}

// CrossIDName returns the blob name of the cross-reference table sorted by
// scheme s.
func CrossIDName(s model.IDScheme) string {
	switch s {
	case model.TMass:
		return "Gaia2Mass/IDtmassSort"
	case model.HAT:
		return "Gaia2Mass/IDhatSort"
	default:
		return "Gaia2Mass/IDgaiaSort"
	}
}

// Partition returns the partition holding id: its leading decimal digit
// when that is 1 to 8, otherwise 9.
func Partition(id int64) int {
	s := strconv.FormatInt(id, 10)
	if c := s[0]; c >= '1' && c <= '8' {
		return int(c - '0')
	}
	return Partitions
}

// Index looks identifiers up in a catalog's tables. Each call opens the
// table it needs and closes it before returning.
type Index struct {
	store blobstore.BlobStore
}

// New returns an index over the tables in store.
func New(store blobstore.BlobStore) *Index {
	return &Index{store: store}
}

// LookupGaiaID finds the partition entry of a Gaia source_id.
func (x *Index) LookupGaiaID(ctx context.Context, id int64) (model.IDPartitionEntry, error) {
	t, err := openTable(ctx, x.store, PartitionName(Partition(id)), codec.IDEntrySize)
	if err != nil {
		return model.IDPartitionEntry{}, err
	}
	defer func() { _ = t.Close() }()

	target := strconv.FormatInt(id, 10)
	i, e, err := t.search(ctx, func(e []byte) int {
		return strings.Compare(target, strconv.FormatInt(codec.SourceID(e), 10))
	})
	if err != nil {
		return model.IDPartitionEntry{}, err
	}
	if i < 0 {
		return model.IDPartitionEntry{}, fmt.Errorf("gaia %d: %w", id, ErrNotFound)
	}
	return codec.DecodeIDEntry(e)
}

// TranslateID converts id from one scheme to another. Translating to the
// same scheme returns id unchanged without touching the tables.
func (x *Index) TranslateID(ctx context.Context, id int64, from, to model.IDScheme) (int64, error) {
	if from == to {
		return id, nil
	}
	t, err := openTable(ctx, x.store, CrossIDName(from), codec.CrossIDEntrySize)
	if err != nil {
		return 0, err
	}
	defer func() { _ = t.Close() }()

	other, ok, err := translate(ctx, t, id, from, to)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%s %s: %w", from, from.Format(id), ErrNotFound)
	}
	return other, nil
}

// TranslateMany converts every id with one pass over the table. Ids
// without a counterpart come back as 0.
func (x *Index) TranslateMany(ctx context.Context, ids []int64, from, to model.IDScheme) ([]int64, error) {
	out := make([]int64, len(ids))
	if from == to {
		copy(out, ids)
		return out, nil
	}
	if len(ids) == 0 {
		return out, nil
	}

	t, err := openTable(ctx, x.store, CrossIDName(from), codec.CrossIDEntrySize)
	if err != nil {
		return nil, err
	}
	defer func() { _ = t.Close() }()

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if out[i], _, err = translate(ctx, t, id, from, to); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func translate(ctx context.Context, t *table, id int64, from, to model.IDScheme) (int64, bool, error) {
	i, e, err := t.search(ctx, func(e []byte) int {
		k := codec.CrossIDKey(e, from)
		switch {
		case id < k:
			return -1
		case id > k:
			return 1
		}
		return 0
	})
	if err != nil || i < 0 {
		return 0, false, err
	}
	return codec.CrossIDKey(e, to), true, nil
}
