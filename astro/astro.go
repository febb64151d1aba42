// Package astro implements the coordinate transforms used by the catalog:
// gnomonic projection and its inverse, proper-motion propagation, precession
// from J2000, and RA/Dec normalization. All angles are in degrees unless a
// function name says otherwise. Nothing in this package does I/O.
package astro

import "math"

// CatalogEpoch is the reference epoch of the catalog positions, in years.
const CatalogEpoch = 2015.5

// MaxProperMotion is the bound, in mas/yr, used to widen a search footprint
// when positions are propagated to another epoch.
const MaxProperMotion = 40000

const (
	masPerDeg    = 3600000.0
	arcsecPerRad = 206264.80624709636
	epsilon      = 1e-9
	// poleGuard is the distance from a pole, in radians, below which the
	// precession uses acos instead of asin for the declination.
	poleGuard = 0.003
)

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 { return deg * math.Pi / 180 }

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 { return rad * 180 / math.Pi }

// MasToDeg converts milliarcseconds to degrees.
func MasToDeg(mas float64) float64 { return mas / masPerDeg }

// DegToMas converts degrees to milliarcseconds.
func DegToMas(deg float64) float64 { return deg * masPerDeg }

// NormRA maps an RA onto [0, 360).
func NormRA(ra float64) float64 {
	ra = math.Mod(ra, 360)
	if ra < 0 {
		ra += 360
	}
	if ra >= 360 {
		ra = 0
	}
	return ra
}

// NormDec folds a declination that went past a pole back into [-90, 90].
func NormDec(dec float64) float64 {
	dec = math.Mod(dec, 360)
	if dec > 180 {
		dec -= 360
	} else if dec < -180 {
		dec += 360
	}
	switch {
	case dec > 90:
		return 180 - dec
	case dec < -90:
		return -180 - dec
	}
	return dec
}

func isEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// Gnomonic projects (ra, dec) onto the plane tangent to the sphere at
// (ra0, dec0) and returns the standard coordinates (xi, eta) in degrees.
//
// Points on or behind the tangent plane's horizon have no projection; they
// come back as (+Inf, +Inf) so every finite window rejects them.
func Gnomonic(ra, dec, ra0, dec0 float64) (xi, eta float64) {
	dra := Deg2Rad(ra - ra0)
	d := Deg2Rad(dec)
	d0 := Deg2Rad(dec0)

	sind, cosd := math.Sincos(d)
	sind0, cosd0 := math.Sincos(d0)
	sindra, cosdra := math.Sincos(dra)

	cosc := sind0*sind + cosd0*cosd*cosdra
	if cosc <= epsilon {
		return math.Inf(1), math.Inf(1)
	}

	xi = cosd * sindra / cosc
	eta = (cosd0*sind - sind0*cosd*cosdra) / cosc
	return Rad2Deg(xi), Rad2Deg(eta)
}

// InvGnomonic maps standard coordinates (xi, eta), in degrees, on the plane
// tangent at (ra0, dec0) back to a normalized (ra, dec).
func InvGnomonic(xi, eta, ra0, dec0 float64) (ra, dec float64) {
	x := Deg2Rad(xi)
	y := Deg2Rad(eta)
	rho := math.Hypot(x, y)
	if rho == 0 {
		return NormRA(ra0), NormDec(dec0)
	}

	c := math.Atan(rho)
	sinc, cosc := math.Sincos(c)
	sind0, cosd0 := math.Sincos(Deg2Rad(dec0))

	ra = ra0 + Rad2Deg(math.Atan2(x*sinc, rho*cosd0*cosc-y*sind0*sinc))
	dec = Rad2Deg(math.Asin(cosc*sind0 + y*sinc*cosd0/rho))
	return NormRA(ra), NormDec(dec)
}

// ApplyProperMotion propagates a position by tdiff years given proper
// motions in mas/yr. pmra is the true angular rate (already multiplied by
// cos dec), so the RA step is divided by cos dec. At a pole the RA rate is
// taken at the new declination instead.
func ApplyProperMotion(ra, dec, pmra, pmdec, tdiff float64) (float64, float64) {
	decNew := dec + MasToDeg(pmdec*tdiff)

	switch {
	case !isEqual(math.Abs(dec), 90):
		ra += MasToDeg(pmra * tdiff / math.Cos(Deg2Rad(dec)))
		dec = decNew
	case !isEqual(math.Abs(decNew), 90):
		dec = decNew
		ra += MasToDeg(pmra * tdiff / math.Cos(Deg2Rad(dec)))
	}

	return NormRA(ra), NormDec(dec)
}

// PrecessFromJ2000 precesses a J2000 position to the mean equinox of the
// given epoch (in years) with the IAU 1976 angles.
func PrecessFromJ2000(ra, dec, epoch float64) (float64, float64) {
	t := (epoch - 2000) / 100
	t2 := t * t
	t3 := t2 * t

	xi := (2306.2181*t + 0.30188*t2 + 0.017998*t3) / arcsecPerRad
	zeta := (2306.2181*t + 1.09468*t2 + 0.018203*t3) / arcsecPerRad
	theta := (2004.3109*t - 0.42665*t2 - 0.041833*t3) / arcsecPerRad

	alpha := Deg2Rad(ra)
	delta := Deg2Rad(dec)

	sinDec, cosDec := math.Sincos(delta)
	sinTh, cosTh := math.Sincos(theta)
	sinA, cosA := math.Sincos(alpha + xi)

	a := cosDec * sinA
	b := cosTh*cosDec*cosA - sinTh*sinDec
	c := sinTh*cosDec*cosA + cosTh*sinDec

	alpha = math.Atan2(a, b) + zeta
	if math.Pi/2-math.Abs(delta) > poleGuard {
		delta = math.Asin(c)
	} else {
		delta = math.Copysign(math.Acos(math.Hypot(a, b)), c)
	}

	return NormRA(Rad2Deg(alpha)), Rad2Deg(delta)
}
