package idindex

import (
	"context"
	"fmt"

	"github.com/jkim117/gaia2read/blobstore"
)

// table is a sorted array of fixed-size entries stored in one blob.
type table struct {
	name      string
	blob      blobstore.Blob
	data      []byte // whole blob when mappable
	entrySize int64
	n         int64
}

func openTable(ctx context.Context, store blobstore.BlobStore, name string, entrySize int64) (*table, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	t := &table{
		name:      name,
		blob:      blob,
		entrySize: entrySize,
		n:         blob.Size() / entrySize,
	}
	if m, ok := blob.(blobstore.Mappable); ok {
		if t.data, err = m.Bytes(); err != nil {
			_ = blob.Close()
			return nil, fmt.Errorf("map %s: %w", name, err)
		}
	}
	return t, nil
}

func (t *table) Close() error {
	return t.blob.Close()
}

// entry returns the bytes of entry i. buf is used when the table is not
// mapped and must hold at least entrySize bytes.
func (t *table) entry(ctx context.Context, i int64, buf []byte) ([]byte, error) {
	off := i * t.entrySize
	if t.data != nil {
		return t.data[off : off+t.entrySize], nil
	}
	b := buf[:t.entrySize]
	if err := blobstore.ReadFull(ctx, t.blob, b, off); err != nil {
		return nil, fmt.Errorf("%s: entry %d: %w", t.name, i, err)
	}
	return b, nil
}

// search bisects the table. cmp reports the sign of target relative to
// the entry's bytes. It returns the index of a matching entry, or -1.
func (t *table) search(ctx context.Context, cmp func(e []byte) int) (int64, []byte, error) {
	buf := make([]byte, t.entrySize)
	lo, hi := int64(0), t.n-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		e, err := t.entry(ctx, mid, buf)
		if err != nil {
			return -1, nil, err
		}
		switch c := cmp(e); {
		case c < 0:
			hi = mid - 1
		case c > 0:
			lo = mid + 1
		default:
			return mid, e, nil
		}
	}
	return -1, nil, nil
}
