package astro

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormRA(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{359.5, 359.5},
		{360, 0},
		{-0.5, 359.5},
		{725, 5},
		{-360, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormRA(tt.in), 1e-12, "NormRA(%v)", tt.in)
	}
}

func TestNormDec(t *testing.T) {
	assert.InDelta(t, 45.0, NormDec(45), 1e-12)
	assert.InDelta(t, 89.0, NormDec(91), 1e-12)
	assert.InDelta(t, -89.0, NormDec(-91), 1e-12)
	assert.InDelta(t, 90.0, NormDec(90), 1e-12)
}

func TestMasToDeg(t *testing.T) {
	assert.InDelta(t, 1.0, MasToDeg(3600000), 1e-15)
	assert.InDelta(t, 3600000.0, DegToMas(1), 1e-9)
}

func TestGnomonic_Center(t *testing.T) {
	xi, eta := Gnomonic(120.5, -33.2, 120.5, -33.2)
	assert.InDelta(t, 0, xi, 1e-12)
	assert.InDelta(t, 0, eta, 1e-12)
}

func TestGnomonic_Orientation(t *testing.T) {
	// North of the center projects to positive eta, east to positive xi.
	_, eta := Gnomonic(10, 5.1, 10, 5)
	assert.Greater(t, eta, 0.0)

	xi, _ := Gnomonic(10.1, 5, 10, 5)
	assert.Greater(t, xi, 0.0)
}

func TestGnomonic_BehindPlane(t *testing.T) {
	xi, eta := Gnomonic(190, 0, 10, 0)
	assert.True(t, math.IsInf(xi, 1))
	assert.True(t, math.IsInf(eta, 1))
}

func TestInvGnomonic_RoundTrip(t *testing.T) {
	centers := [][2]float64{{10, 5}, {0.01, -30}, {359.9, 60}, {180, 89}}
	offsets := [][2]float64{{0.1, 0.1}, {-0.3, 0.2}, {0.05, -0.4}}

	for _, c := range centers {
		for _, o := range offsets {
			ra, dec := InvGnomonic(o[0], o[1], c[0], c[1])
			xi, eta := Gnomonic(ra, dec, c[0], c[1])
			assert.InDelta(t, o[0], xi, 1e-9, "xi center=%v off=%v", c, o)
			assert.InDelta(t, o[1], eta, 1e-9, "eta center=%v off=%v", c, o)
		}
	}
}

func TestInvGnomonic_Origin(t *testing.T) {
	ra, dec := InvGnomonic(0, 0, 370, 12)
	assert.InDelta(t, 10, ra, 1e-12)
	assert.InDelta(t, 12, dec, 1e-12)
}

func TestApplyProperMotion_ZeroTime(t *testing.T) {
	ra, dec := ApplyProperMotion(123.4, -56.7, 500, -300, 0)
	assert.InDelta(t, 123.4, ra, 1e-12)
	assert.InDelta(t, -56.7, dec, 1e-12)
}

func TestApplyProperMotion_ZeroMotion(t *testing.T) {
	ra, dec := ApplyProperMotion(123.4, -56.7, 0, 0, 25)
	assert.InDelta(t, 123.4, ra, 1e-12)
	assert.InDelta(t, -56.7, dec, 1e-12)
}

func TestApplyProperMotion_Declination(t *testing.T) {
	// 3600 mas/yr for 10 years is 10 arcsec.
	_, dec := ApplyProperMotion(10, 0, 0, 3600, 10)
	assert.InDelta(t, 10.0/3600, dec, 1e-12)
}

func TestApplyProperMotion_RAScalesWithDec(t *testing.T) {
	ra, _ := ApplyProperMotion(10, 60, 3600, 0, 1)
	// 1 arcsec on the sky at dec 60 is 2 arcsec of RA.
	assert.InDelta(t, 10+2.0/3600, ra, 1e-9)
}

func TestApplyProperMotion_WrapsRA(t *testing.T) {
	ra, _ := ApplyProperMotion(359.9999, 0, 3600000, 0, 1)
	assert.InDelta(t, 0.9999, ra, 1e-9)
}

func TestApplyProperMotion_AtPole(t *testing.T) {
	ra, dec := ApplyProperMotion(10, 90, 1000, -3600, 1)
	assert.InDelta(t, 90-1.0/3600, dec, 1e-12)
	assert.False(t, math.IsNaN(ra))
	assert.False(t, math.IsInf(ra, 0))
}

func TestPrecessFromJ2000_Identity(t *testing.T) {
	positions := [][2]float64{{0, 0}, {10, 5}, {359.99, -45}, {180, 89.95}, {45, -89.95}}
	for _, p := range positions {
		ra, dec := PrecessFromJ2000(p[0], p[1], 2000)
		assert.InDelta(t, NormRA(p[0]), ra, 1e-9, "ra %v", p)
		assert.InDelta(t, p[1], dec, 1e-9, "dec %v", p)
	}
}

func TestPrecessFromJ2000_KnownShift(t *testing.T) {
	// General precession is about 50.3 arcsec/yr in longitude; at the
	// equinox the RA shift over 50 years is roughly 0.64 deg.
	ra, dec := PrecessFromJ2000(0, 0, 2050)
	assert.InDelta(t, 0.64, ra, 0.01)
	assert.InDelta(t, 0.28, dec, 0.01)
}
