package query

import (
	"errors"
	"math"

	"github.com/jkim117/gaia2read/astro"
	"github.com/jkim117/gaia2read/model"
)

// ErrInvalidRequest is returned for a request whose center is not a number.
var ErrInvalidRequest = errors.New("query: invalid request")

// Request describes a positional query.
type Request struct {
	// RA and Dec are the center in degrees.
	RA, Dec float64
	// Circle selects a circle of radius Size instead of a box of side Size.
	Circle bool
	// Size is the box side or circle radius in degrees. Size <= 0 selects
	// the whole sky.
	Size float64
	// Epoch, when set, propagates every candidate to that epoch (years)
	// before it is tested. Returned records carry the new position.
	Epoch *float64
	// Mags optionally bounds the G, BP and RP magnitudes.
	Mags *model.MagLimits
}

// Validate rejects a request whose center is NaN or infinite.
func (r Request) Validate() error {
	if math.IsNaN(r.RA) || math.IsNaN(r.Dec) || math.IsInf(r.RA, 0) || math.IsInf(r.Dec, 0) {
		return ErrInvalidRequest
	}
	if math.IsNaN(r.Size) {
		return ErrInvalidRequest
	}
	return nil
}

// halfSize is the half side of a box or the radius of a circle.
func (r Request) halfSize() float64 {
	if r.Circle {
		return r.Size
	}
	return r.Size / 2
}

// Filter decides whether a candidate record belongs to the result.
type Filter struct {
	req  Request
	half float64
}

// NewFilter returns the acceptance test for req.
func NewFilter(req Request) *Filter {
	return &Filter{req: req, half: req.halfSize()}
}

// Accept reports whether s is in the query region. When the request has an
// epoch, s's position is propagated in place first.
func (f *Filter) Accept(s *model.Star) bool {
	if m := f.req.Mags; m != nil && !m.IsZero() && !acceptMags(s, m) {
		return false
	}

	if f.req.Epoch != nil {
		s.RA, s.Dec = astro.ApplyProperMotion(s.RA, s.Dec, s.PMRA, s.PMDec, *f.req.Epoch-astro.CatalogEpoch)
	}

	if f.half <= 0 {
		return true
	}

	xi, eta := astro.Gnomonic(s.RA, s.Dec, f.req.RA, f.req.Dec)
	if xi > f.half || xi < -f.half || eta > f.half || eta < -f.half {
		return false
	}
	if f.req.Circle {
		return xi*xi+eta*eta <= f.half*f.half
	}
	return true
}

func acceptMags(s *model.Star, m *model.MagLimits) bool {
	if !inRange(float64(s.PhotGMeanMag), m.GMin, m.GMax) {
		return false
	}

	bp := float64(s.PhotBPMeanMag)
	if m.BPMin != nil || m.BPMax != nil {
		if model.IsNotAvailable(bp) || !inRange(bp, m.BPMin, m.BPMax) {
			return false
		}
	}

	rp := float64(s.PhotRPMeanMag)
	if m.RPMin != nil || m.RPMax != nil {
		if model.IsNotAvailable(rp) || !inRange(rp, m.RPMin, m.RPMax) {
			return false
		}
	}
	return true
}

func inRange(v float64, lo, hi *float64) bool {
	if lo != nil && v < *lo {
		return false
	}
	if hi != nil && v > *hi {
		return false
	}
	return true
}
