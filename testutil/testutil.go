package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/jkim117/gaia2read/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Uniform returns a pseudo-random number in [lo, hi).
func (r *RNG) Uniform(lo, hi float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + r.rand.Float64()*(hi-lo)
}

// SortedWithDuplicates returns n non-decreasing values in [lo, hi) where
// roughly dupRate of the values repeat their predecessor.
func (r *RNG) SortedWithDuplicates(n int, lo, hi, dupRate float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, n)
	step := (hi - lo) / float64(max(n, 1))
	v := lo
	for i := range out {
		if i > 0 && r.rand.Float64() < dupRate {
			out[i] = out[i-1]
			continue
		}
		v += r.rand.Float64() * step
		out[i] = min(v, math.Nextafter(hi, lo))
	}
	return out
}

// NewStar returns a star at (ra, dec) with catalog epoch, no proper
// motion, G = 15 and the BP/RP magnitudes unavailable.
func NewStar(id int64, ra, dec float64) model.Star {
	return model.Star{
		SourceID:      id,
		RefEpoch:      2015.5,
		RA:            ra,
		Dec:           dec,
		PhotGMeanMag:  15,
		PhotBPMeanMag: model.NotAvailable,
		PhotRPMeanMag: model.NotAvailable,
	}
}

// RandomStar returns a star at (ra, dec) with every other field filled
// with plausible random values. Proper motions stay within ±pmMax mas/yr.
func (r *RNG) RandomStar(id int64, ra, dec, pmMax float64) model.Star {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := r.rand.Float64
	f32 := r.rand.Float32
	return model.Star{
		SourceID:                  id,
		RefEpoch:                  2015.5,
		RA:                        ra,
		RAError:                   f(),
		Dec:                       dec,
		DecError:                  f(),
		Parallax:                  f() * 10,
		ParallaxError:             f(),
		PMRA:                      (2*f() - 1) * pmMax,
		PMRAError:                 f(),
		PMDec:                     (2*f() - 1) * pmMax,
		PMDecError:                f(),
		AstrometricExcessNoise:    f(),
		AstrometricExcessNoiseSig: f() * 3,
		AstrometricPrimaryFlag:    r.rand.Intn(2) == 1,
		PhotGNObs:                 int32(r.rand.Intn(500)),
		PhotGMeanFlux:             f() * 1e5,
		PhotGMeanFluxError:        f() * 10,
		PhotGMeanFluxOverErr:      f32() * 1000,
		PhotGMeanMag:              8 + f32()*12,
		PhotBPNObs:                int32(r.rand.Intn(50)),
		PhotBPMeanFlux:            f() * 1e5,
		PhotBPMeanFluxError:       f() * 10,
		PhotBPMeanFluxOverErr:     f32() * 1000,
		PhotBPMeanMag:             8 + f32()*12,
		PhotRPNObs:                int32(r.rand.Intn(50)),
		PhotRPMeanFlux:            f() * 1e5,
		PhotRPMeanFluxError:       f() * 10,
		PhotRPMeanFluxOverErr:     f32() * 1000,
		PhotRPMeanMag:             8 + f32()*12,
		PhotBPRPExcessFactor:      1 + f32(),
		RadialVelocity:            (2*f() - 1) * 100,
		RadialVelocityError:       f(),
		PhotVariableFlag:          r.rand.Intn(10) == 0,
		TeffVal:                   3000 + f32()*4000,
		TeffPercentileLower:       2900 + f32()*100,
		TeffPercentileUpper:       7000 + f32()*100,
		AGVal:                     f32(),
		AGPercentileLower:         f32(),
		AGPercentileUpper:         f32(),
		EBPMinRPVal:               f32(),
		EBPMinRPPercentileLow:     f32(),
		EBPMinRPPercentileUp:      f32(),
		RadiusVal:                 f32() * 5,
		RadiusPercentileLower:     f32(),
		RadiusPercentileUpper:     f32() * 6,
		LumVal:                    f32() * 50,
		LumPercentileLower:        f32(),
		LumPercentileUpper:        f32() * 60,
	}
}

// StarsInBox returns n random stars uniformly spread over the RA/Dec
// rectangle. Source ids are assigned sequentially from 1.
func (r *RNG) StarsInBox(n int, raMin, raMax, decMin, decMax float64) []model.Star {
	stars := make([]model.Star, n)
	for i := range stars {
		ra := r.Uniform(raMin, raMax)
		dec := r.Uniform(decMin, decMax)
		stars[i] = r.RandomStar(int64(i+1), ra, dec, 50)
	}
	return stars
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// Useful for crowding stars into a few sub-zones.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}

	return n - 1
}
