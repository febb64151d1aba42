// Package zone reads and writes the catalog's declination-band files.
//
// The sky is cut into Count bands of Height degrees in declination. Each
// band lives in one file: a header of codec.HeaderEntries cumulative record
// counts, one per SubzoneWidth-degree RA bin, followed by the band's records
// sorted by RA. Header entry i is the number of records whose RA falls in
// sub-zones 0..i, so the records of sub-zone i occupy a contiguous byte
// range that LocateBoundary can bisect.
package zone

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/jkim117/gaia2read/blobstore"
	"github.com/jkim117/gaia2read/codec"
	"github.com/jkim117/gaia2read/model"
)

const (
	// Count is the number of declination zones, numbered 1..Count.
	Count = 900
	// Height is the declination extent of a zone in degrees.
	Height = 0.2
	// Subzones is the number of RA bins per zone, numbered 0..Subzones-1.
	Subzones = codec.HeaderEntries
	// SubzoneWidth is the RA extent of a sub-zone in degrees.
	SubzoneWidth = 0.25

	dirName = "Gaia2Bin/sortedBin/"
)

// ErrCorrupt is returned when a zone file's header is inconsistent with
// its size.
var ErrCorrupt = errors.New("zone: corrupt zone file")

// Name returns the blob name of a zone file.
func Name(zone int) string {
	return fmt.Sprintf("%sz%d", dirName, zone)
}

// ForDec returns the zone holding declination dec.
func ForDec(dec float64) int {
	if dec >= 90 {
		return Count
	}
	z := int(math.Floor((dec+90)/Height)) + 1
	return min(max(z, 1), Count)
}

// SubzoneForRA returns the RA bin holding ra.
func SubzoneForRA(ra float64) int {
	if ra >= 360 {
		return Subzones - 1
	}
	s := int(math.Floor(ra / SubzoneWidth))
	return min(max(s, 0), Subzones-1)
}

// File is an open zone file. It is safe for concurrent reads.
type File struct {
	zone   int
	blob   blobstore.Blob
	data   []byte // whole file when the blob is mappable
	size   int64
	header [Subzones]int32
}

// Open opens a zone file and validates its header.
func Open(ctx context.Context, store blobstore.BlobStore, zone int) (*File, error) {
	if zone < 1 || zone > Count {
		return nil, fmt.Errorf("zone %d out of range [1, %d]", zone, Count)
	}
	blob, err := store.Open(ctx, Name(zone))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", Name(zone), err)
	}

	f := &File{zone: zone, blob: blob, size: blob.Size()}
	if m, ok := blob.(blobstore.Mappable); ok {
		if f.data, err = m.Bytes(); err != nil {
			_ = blob.Close()
			return nil, fmt.Errorf("map %s: %w", Name(zone), err)
		}
	}

	if err := f.readHeader(ctx); err != nil {
		_ = blob.Close()
		return nil, err
	}
	return f, nil
}

func (f *File) readHeader(ctx context.Context) error {
	var hdr []byte
	if f.data != nil {
		if len(f.data) < codec.HeaderSize {
			return fmt.Errorf("%w: %s: %d bytes is shorter than the header", ErrCorrupt, Name(f.zone), len(f.data))
		}
		hdr = f.data[:codec.HeaderSize]
	} else {
		hdr = make([]byte, codec.HeaderSize)
		if err := blobstore.ReadFull(ctx, f.blob, hdr, 0); err != nil {
			return fmt.Errorf("read header of %s: %w", Name(f.zone), err)
		}
	}
	if err := codec.DecodeHeader(hdr, &f.header); err != nil {
		return err
	}

	prev := int32(0)
	for i, v := range f.header {
		if v < prev {
			return fmt.Errorf("%w: %s: header entry %d decreases (%d < %d)", ErrCorrupt, Name(f.zone), i, v, prev)
		}
		prev = v
	}
	if need := codec.HeaderSize + int64(prev)*codec.RecordSize; need > f.size {
		return fmt.Errorf("%w: %s: header promises %d records but file has %d bytes", ErrCorrupt, Name(f.zone), prev, f.size)
	}
	return nil
}

// Close releases the underlying blob.
func (f *File) Close() error {
	return f.blob.Close()
}

// Zone returns the zone number.
func (f *File) Zone() int { return f.zone }

// Header returns the cumulative sub-zone counts.
func (f *File) Header() [Subzones]int32 { return f.header }

// NumRecords returns the number of records in the file.
func (f *File) NumRecords() int64 { return int64(f.header[Subzones-1]) }

// OffsetOf returns the byte offset of the record with the given index.
func OffsetOf(index int64) int64 {
	return codec.HeaderSize + index*codec.RecordSize
}

// ByteRange returns the half-open byte range of sub-zone s's records.
func (f *File) ByteRange(s int) (start, end int64) {
	if s > 0 {
		start = OffsetOf(int64(f.header[s-1]))
	} else {
		start = codec.HeaderSize
	}
	return start, OffsetOf(int64(f.header[s]))
}

func (f *File) readField(ctx context.Context, off int64) (float64, error) {
	if off < codec.HeaderSize || off+8 > f.size {
		return 0, fmt.Errorf("%s: offset %d: %w", Name(f.zone), off, io.ErrUnexpectedEOF)
	}
	if f.data != nil {
		return codec.Float64(f.data[off:]), nil
	}
	var buf [8]byte
	if err := blobstore.ReadFull(ctx, f.blob, buf[:], off); err != nil {
		return 0, fmt.Errorf("%s: %w", Name(f.zone), err)
	}
	return codec.Float64(buf[:]), nil
}

// RAAt reads only the ra field of the record at byte offset off.
func (f *File) RAAt(ctx context.Context, off int64) (float64, error) {
	return f.readField(ctx, off+codec.RAOffset)
}

// DecAt reads only the dec field of the record at byte offset off.
func (f *File) DecAt(ctx context.Context, off int64) (float64, error) {
	return f.readField(ctx, off+codec.DecOffset)
}

// RecordAt decodes the full record at byte offset off.
func (f *File) RecordAt(ctx context.Context, off int64, s *model.Star) error {
	if off < codec.HeaderSize || off+codec.RecordSize > f.size {
		return fmt.Errorf("%s: record at %d: %w", Name(f.zone), off, io.ErrUnexpectedEOF)
	}
	if f.data != nil {
		return codec.DecodeStar(f.data[off:], s)
	}
	var buf [codec.RecordSize]byte
	if err := blobstore.ReadFull(ctx, f.blob, buf[:], off); err != nil {
		return fmt.Errorf("%s: %w", Name(f.zone), err)
	}
	return codec.DecodeStar(buf[:], s)
}

// LocateBoundary bisects sub-zone s for ra. With lower set it returns the
// offset of the first record whose RA is >= ra; otherwise the offset just
// past the last record whose RA is <= ra. When no record qualifies the
// result is the end of the sub-zone. Only the ra field of each probed
// record is read.
func (f *File) LocateBoundary(ctx context.Context, s int, ra float64, lower bool) (int64, error) {
	start, end := f.ByteRange(s)
	lo := (start - codec.HeaderSize) / codec.RecordSize
	hi := (end - codec.HeaderSize) / codec.RecordSize

	for lo < hi {
		mid := lo + (hi-lo)/2
		v, err := f.RAAt(ctx, OffsetOf(mid))
		if err != nil {
			return 0, err
		}
		if v < ra || (!lower && v == ra) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return OffsetOf(lo), nil
}

// Scan calls fn with the raw bytes of each record in [from, to), in order.
// The slice passed to fn is only valid during the call. Scanning stops at
// the first error fn returns.
func (f *File) Scan(ctx context.Context, from, to int64, fn func(off int64, rec []byte) error) error {
	if to <= from {
		return nil
	}
	if from < codec.HeaderSize || to > f.size || (to-from)%codec.RecordSize != 0 {
		return fmt.Errorf("%s: scan [%d, %d): %w", Name(f.zone), from, to, io.ErrUnexpectedEOF)
	}

	if f.data != nil {
		if adv, ok := f.blob.(blobstore.SequentialAdvisor); ok {
			_ = adv.AdviseSequential(from, to-from)
		}
		for off := from; off < to; off += codec.RecordSize {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(off, f.data[off:off+codec.RecordSize]); err != nil {
				return err
			}
		}
		return nil
	}

	rc, err := f.blob.ReadRange(ctx, from, to-from)
	if err != nil {
		return fmt.Errorf("%s: %w", Name(f.zone), err)
	}
	defer rc.Close()

	buf := make([]byte, scanChunkRecords*codec.RecordSize)
	for off := from; off < to; {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(int64(len(buf)), to-off)
		if _, err := io.ReadFull(rc, buf[:n]); err != nil {
			return fmt.Errorf("%s: scan at %d: %w", Name(f.zone), off, blobstore.ErrShortRead)
		}
		for i := int64(0); i < n; i += codec.RecordSize {
			if err := fn(off+i, buf[i:i+codec.RecordSize]); err != nil {
				return err
			}
		}
		off += n
	}
	return nil
}

// scanChunkRecords is the number of records fetched per read when the
// file is not mapped.
const scanChunkRecords = 1024

// ReadRecord reads the single record at byte offset off of zone file z
// without loading the header.
func ReadRecord(ctx context.Context, store blobstore.BlobStore, z int, off int64, s *model.Star) error {
	if z < 1 || z > Count {
		return fmt.Errorf("zone %d out of range [1, %d]", z, Count)
	}
	blob, err := store.Open(ctx, Name(z))
	if err != nil {
		return fmt.Errorf("open %s: %w", Name(z), err)
	}
	defer func() { _ = blob.Close() }()

	if off < codec.HeaderSize || (off-codec.HeaderSize)%codec.RecordSize != 0 {
		return fmt.Errorf("%w: %s: misaligned record offset %d", ErrCorrupt, Name(z), off)
	}
	var buf [codec.RecordSize]byte
	if err := blobstore.ReadFull(ctx, blob, buf[:], off); err != nil {
		return fmt.Errorf("%s: record at %d: %w", Name(z), off, err)
	}
	return codec.DecodeStar(buf[:], s)
}
