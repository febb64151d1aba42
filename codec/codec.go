// Package codec defines the on-disk layout of the catalog's three record
// kinds and converts between bytes and model types.
//
// Every record is little-endian and packed with no padding:
//
//	Star             278 bytes  (ra at offset 16, dec at offset 32)
//	IDPartitionEntry  20 bytes  {source_id i64, position i64, zone i32}
//	CrossIDEntry      24 bytes  {gaia i64, tmass i64, hat i64}
//
// The zone-file header is HeaderEntries little-endian int32 values.
//
// Changing this layout invalidates every catalog built with the old one.
package codec

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/jkim117/gaia2read/model"
)

const (
	// RecordSize is the encoded size of a model.Star.
	RecordSize = 278
	// RAOffset and DecOffset locate the position fields inside a record so
	// scans can test them without decoding the rest.
	RAOffset  = 16
	DecOffset = 32

	// IDEntrySize is the encoded size of a model.IDPartitionEntry.
	IDEntrySize = 20
	// CrossIDEntrySize is the encoded size of a model.CrossIDEntry.
	CrossIDEntrySize = 24

	// HeaderEntries is the number of sub-zone counts in a zone-file header.
	HeaderEntries = 1440
	// HeaderSize is the encoded size of a zone-file header.
	HeaderSize = HeaderEntries * 4
)

// ErrShortBuffer is returned when a buffer is smaller than the record it
// should hold.
var ErrShortBuffer = errors.New("codec: short buffer")

var le = binary.LittleEndian

// AppendStar appends the encoded form of s to dst.
func AppendStar(dst []byte, s *model.Star) []byte {
	dst = le.AppendUint64(dst, uint64(s.SourceID))
	dst = appendF64(dst, s.RefEpoch)
	dst = appendF64(dst, s.RA)
	dst = appendF64(dst, s.RAError)
	dst = appendF64(dst, s.Dec)
	dst = appendF64(dst, s.DecError)
	dst = appendF64(dst, s.Parallax)
	dst = appendF64(dst, s.ParallaxError)
	dst = appendF64(dst, s.PMRA)
	dst = appendF64(dst, s.PMRAError)
	dst = appendF64(dst, s.PMDec)
	dst = appendF64(dst, s.PMDecError)
	dst = appendF64(dst, s.AstrometricExcessNoise)
	dst = appendF64(dst, s.AstrometricExcessNoiseSig)
	dst = appendBool(dst, s.AstrometricPrimaryFlag)

	dst = le.AppendUint32(dst, uint32(s.PhotGNObs))
	dst = appendF64(dst, s.PhotGMeanFlux)
	dst = appendF64(dst, s.PhotGMeanFluxError)
	dst = appendF32(dst, s.PhotGMeanFluxOverErr)
	dst = appendF32(dst, s.PhotGMeanMag)

	dst = le.AppendUint32(dst, uint32(s.PhotBPNObs))
	dst = appendF64(dst, s.PhotBPMeanFlux)
	dst = appendF64(dst, s.PhotBPMeanFluxError)
	dst = appendF32(dst, s.PhotBPMeanFluxOverErr)
	dst = appendF32(dst, s.PhotBPMeanMag)

	dst = le.AppendUint32(dst, uint32(s.PhotRPNObs))
	dst = appendF64(dst, s.PhotRPMeanFlux)
	dst = appendF64(dst, s.PhotRPMeanFluxError)
	dst = appendF32(dst, s.PhotRPMeanFluxOverErr)
	dst = appendF32(dst, s.PhotRPMeanMag)

	dst = appendF32(dst, s.PhotBPRPExcessFactor)
	dst = appendF64(dst, s.RadialVelocity)
	dst = appendF64(dst, s.RadialVelocityError)
	dst = appendBool(dst, s.PhotVariableFlag)

	for _, v := range [...]float32{
		s.TeffVal, s.TeffPercentileLower, s.TeffPercentileUpper,
		s.AGVal, s.AGPercentileLower, s.AGPercentileUpper,
		s.EBPMinRPVal, s.EBPMinRPPercentileLow, s.EBPMinRPPercentileUp,
		s.RadiusVal, s.RadiusPercentileLower, s.RadiusPercentileUpper,
		s.LumVal, s.LumPercentileLower, s.LumPercentileUpper,
	} {
		dst = appendF32(dst, v)
	}
	return dst
}

// DecodeStar decodes one record from the start of b.
func DecodeStar(b []byte, s *model.Star) error {
	if len(b) < RecordSize {
		return ErrShortBuffer
	}
	r := reader{b: b[:RecordSize]}

	s.SourceID = r.i64()
	s.RefEpoch = r.f64()
	s.RA = r.f64()
	s.RAError = r.f64()
	s.Dec = r.f64()
	s.DecError = r.f64()
	s.Parallax = r.f64()
	s.ParallaxError = r.f64()
	s.PMRA = r.f64()
	s.PMRAError = r.f64()
	s.PMDec = r.f64()
	s.PMDecError = r.f64()
	s.AstrometricExcessNoise = r.f64()
	s.AstrometricExcessNoiseSig = r.f64()
	s.AstrometricPrimaryFlag = r.bool()

	s.PhotGNObs = r.i32()
	s.PhotGMeanFlux = r.f64()
	s.PhotGMeanFluxError = r.f64()
	s.PhotGMeanFluxOverErr = r.f32()
	s.PhotGMeanMag = r.f32()

	s.PhotBPNObs = r.i32()
	s.PhotBPMeanFlux = r.f64()
	s.PhotBPMeanFluxError = r.f64()
	s.PhotBPMeanFluxOverErr = r.f32()
	s.PhotBPMeanMag = r.f32()

	s.PhotRPNObs = r.i32()
	s.PhotRPMeanFlux = r.f64()
	s.PhotRPMeanFluxError = r.f64()
	s.PhotRPMeanFluxOverErr = r.f32()
	s.PhotRPMeanMag = r.f32()

	s.PhotBPRPExcessFactor = r.f32()
	s.RadialVelocity = r.f64()
	s.RadialVelocityError = r.f64()
	s.PhotVariableFlag = r.bool()

	for _, p := range [...]*float32{
		&s.TeffVal, &s.TeffPercentileLower, &s.TeffPercentileUpper,
		&s.AGVal, &s.AGPercentileLower, &s.AGPercentileUpper,
		&s.EBPMinRPVal, &s.EBPMinRPPercentileLow, &s.EBPMinRPPercentileUp,
		&s.RadiusVal, &s.RadiusPercentileLower, &s.RadiusPercentileUpper,
		&s.LumVal, &s.LumPercentileLower, &s.LumPercentileUpper,
	} {
		*p = r.f32()
	}
	return nil
}

// RA reads the ra field of the record starting at b.
func RA(b []byte) float64 {
	return math.Float64frombits(le.Uint64(b[RAOffset:]))
}

// Dec reads the dec field of the record starting at b.
func Dec(b []byte) float64 {
	return math.Float64frombits(le.Uint64(b[DecOffset:]))
}

// SourceID reads the source_id field of the record starting at b.
func SourceID(b []byte) int64 {
	return int64(le.Uint64(b))
}

// Float64 decodes a little-endian float64 field.
func Float64(b []byte) float64 {
	return math.Float64frombits(le.Uint64(b))
}

// AppendIDEntry appends the encoded form of e to dst.
func AppendIDEntry(dst []byte, e model.IDPartitionEntry) []byte {
	dst = le.AppendUint64(dst, uint64(e.SourceID))
	dst = le.AppendUint64(dst, uint64(e.Position))
	return le.AppendUint32(dst, uint32(e.Zone))
}

// DecodeIDEntry decodes one partition entry from the start of b.
func DecodeIDEntry(b []byte) (model.IDPartitionEntry, error) {
	if len(b) < IDEntrySize {
		return model.IDPartitionEntry{}, ErrShortBuffer
	}
	return model.IDPartitionEntry{
		SourceID: int64(le.Uint64(b)),
		Position: int64(le.Uint64(b[8:])),
		Zone:     int32(le.Uint32(b[16:])),
	}, nil
}

// AppendCrossIDEntry appends the encoded form of e to dst.
func AppendCrossIDEntry(dst []byte, e model.CrossIDEntry) []byte {
	dst = le.AppendUint64(dst, uint64(e.Gaia))
	dst = le.AppendUint64(dst, uint64(e.TMass))
	return le.AppendUint64(dst, uint64(e.HAT))
}

// DecodeCrossIDEntry decodes one cross-reference entry from the start of b.
func DecodeCrossIDEntry(b []byte) (model.CrossIDEntry, error) {
	if len(b) < CrossIDEntrySize {
		return model.CrossIDEntry{}, ErrShortBuffer
	}
	return model.CrossIDEntry{
		Gaia:  int64(le.Uint64(b)),
		TMass: int64(le.Uint64(b[8:])),
		HAT:   int64(le.Uint64(b[16:])),
	}, nil
}

// CrossIDKey reads the identifier of the given scheme from the
// cross-reference entry starting at b.
func CrossIDKey(b []byte, s model.IDScheme) int64 {
	switch s {
	case model.TMass:
		return int64(le.Uint64(b[8:]))
	case model.HAT:
		return int64(le.Uint64(b[16:]))
	default:
		return int64(le.Uint64(b))
	}
}

// AppendHeader appends a zone-file header.
func AppendHeader(dst []byte, h *[HeaderEntries]int32) []byte {
	for _, v := range h {
		dst = le.AppendUint32(dst, uint32(v))
	}
	return dst
}

// DecodeHeader decodes a zone-file header from the start of b.
func DecodeHeader(b []byte, h *[HeaderEntries]int32) error {
	if len(b) < HeaderSize {
		return ErrShortBuffer
	}
	for i := range h {
		h[i] = int32(le.Uint32(b[i*4:]))
	}
	return nil
}

func appendF64(dst []byte, v float64) []byte {
	return le.AppendUint64(dst, math.Float64bits(v))
}

func appendF32(dst []byte, v float32) []byte {
	return le.AppendUint32(dst, math.Float32bits(v))
}

func appendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

type reader struct {
	b   []byte
	off int
}

func (r *reader) i64() int64 {
	v := int64(le.Uint64(r.b[r.off:]))
	r.off += 8
	return v
}

func (r *reader) f64() float64 {
	v := math.Float64frombits(le.Uint64(r.b[r.off:]))
	r.off += 8
	return v
}

func (r *reader) i32() int32 {
	v := int32(le.Uint32(r.b[r.off:]))
	r.off += 4
	return v
}

func (r *reader) f32() float32 {
	v := math.Float32frombits(le.Uint32(r.b[r.off:]))
	r.off += 4
	return v
}

func (r *reader) bool() bool {
	v := r.b[r.off] != 0
	r.off++
	return v
}
