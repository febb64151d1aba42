package query

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/jkim117/gaia2read/astro"
	"github.com/jkim117/gaia2read/zone"
)

// pmMarginRate pads the footprint for proper motion, in mas/yr. It is the
// catalog's largest proper motion plus a small allowance for rounding.
const pmMarginRate = 0.1 * (astro.MaxProperMotion + 1)

// Footprint is the declination band and RA interval a query has to scan.
// When RAMax <= RAMin the interval wraps through RA 0.
type Footprint struct {
	RAMin, RAMax   float64
	DecMin, DecMax float64
	// Zones holds the numbers of the zones the band touches.
	Zones *roaring.Bitmap
}

// NewFootprint computes the scan region of req.
func NewFootprint(req Request) Footprint {
	fp := Footprint{RAMin: 0, RAMax: 360, DecMin: -90, DecMax: 90}

	if s := req.halfSize(); s > 0 {
		if req.Epoch != nil {
			s += astro.MasToDeg(pmMarginRate * math.Abs(*req.Epoch-astro.CatalogEpoch))
		}

		raLL, decLL := astro.InvGnomonic(-s, -s, req.RA, req.Dec)
		raUL, decUL := astro.InvGnomonic(-s, s, req.RA, req.Dec)
		raLR, _ := astro.InvGnomonic(s, -s, req.RA, req.Dec)
		raUR, _ := astro.InvGnomonic(s, s, req.RA, req.Dec)
		_, decLM := astro.InvGnomonic(0, -s, req.RA, req.Dec)
		_, decUM := astro.InvGnomonic(0, s, req.RA, req.Dec)

		fp.DecMin = min(decUL, decUM, decLL, decLM)
		fp.DecMax = max(decLL, decLM, decUM, decUL)
		fp.RAMin = min(raUL, raLL)
		fp.RAMax = max(raUR, raLR)

		switch {
		case req.Dec-s <= -90:
			fp.DecMin, fp.RAMin, fp.RAMax = -90, 0, 360
		case req.Dec+s >= 90:
			fp.DecMax, fp.RAMin, fp.RAMax = 90, 0, 360
		}
	}

	fp.Zones = roaring.New()
	fp.Zones.AddRange(uint64(zone.ForDec(fp.DecMin)), uint64(zone.ForDec(fp.DecMax))+1)
	return fp
}

// Wraps reports whether the RA interval crosses RA 0.
func (fp Footprint) Wraps() bool {
	return fp.RAMax <= fp.RAMin
}

// raPass is one contiguous RA run inside a zone: from the first record at
// or after fromRA in sub-zone fromSub up to the last record at or before
// toRA in sub-zone toSub.
type raPass struct {
	fromSub int
	fromRA  float64
	toSub   int
	toRA    float64
}

func (fp Footprint) passes() []raPass {
	if !fp.Wraps() {
		return []raPass{{
			fromSub: zone.SubzoneForRA(fp.RAMin), fromRA: fp.RAMin,
			toSub: zone.SubzoneForRA(fp.RAMax), toRA: fp.RAMax,
		}}
	}
	return []raPass{
		{fromSub: 0, fromRA: 0, toSub: zone.SubzoneForRA(fp.RAMax), toRA: fp.RAMax},
		{fromSub: zone.SubzoneForRA(fp.RAMin), fromRA: fp.RAMin, toSub: zone.Subzones - 1, toRA: 360},
	}
}
