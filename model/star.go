package model

import "math"

// Sentinel values used by the catalog in place of missing data.
const (
	// NotAvailable marks an unset magnitude-like real.
	NotAvailable = 3.55
	// VariableNotAvailable and Variable are the textual states of the
	// photometric variability flag before it is collapsed to a bool.
	VariableNotAvailable = 4.55
	Variable             = 5.55
	// PrimaryFalse and PrimaryTrue are the astrometric primary flag states.
	PrimaryFalse = 6.55
	PrimaryTrue  = 7.55

	sentinelTolerance = 1e-7
)

// IsNotAvailable reports whether v holds the NotAvailable sentinel.
func IsNotAvailable(v float64) bool {
	return math.Abs(NotAvailable-v) < sentinelTolerance
}

// FlagFromSentinel collapses a flag sentinel into a bool. Variable and
// PrimaryTrue map to true; everything else maps to false.
func FlagFromSentinel(v float64) bool {
	return math.Abs(v-Variable) < sentinelTolerance || math.Abs(v-PrimaryTrue) < sentinelTolerance
}

// Star is one catalog record. Field order matches the on-disk layout.
type Star struct {
	SourceID int64
	RefEpoch float64

	RA       float64
	RAError  float64
	Dec      float64
	DecError float64

	Parallax      float64
	ParallaxError float64

	PMRA       float64
	PMRAError  float64
	PMDec      float64
	PMDecError float64

	AstrometricExcessNoise    float64
	AstrometricExcessNoiseSig float64
	AstrometricPrimaryFlag    bool

	PhotGNObs             int32
	PhotGMeanFlux         float64
	PhotGMeanFluxError    float64
	PhotGMeanFluxOverErr  float32
	PhotGMeanMag          float32
	PhotBPNObs            int32
	PhotBPMeanFlux        float64
	PhotBPMeanFluxError   float64
	PhotBPMeanFluxOverErr float32
	PhotBPMeanMag         float32
	PhotRPNObs            int32
	PhotRPMeanFlux        float64
	PhotRPMeanFluxError   float64
	PhotRPMeanFluxOverErr float32
	PhotRPMeanMag         float32
	PhotBPRPExcessFactor  float32

	RadialVelocity      float64
	RadialVelocityError float64
	PhotVariableFlag    bool

	TeffVal               float32
	TeffPercentileLower   float32
	TeffPercentileUpper   float32
	AGVal                 float32
	AGPercentileLower     float32
	AGPercentileUpper     float32
	EBPMinRPVal           float32
	EBPMinRPPercentileLow float32
	EBPMinRPPercentileUp  float32
	RadiusVal             float32
	RadiusPercentileLower float32
	RadiusPercentileUpper float32
	LumVal                float32
	LumPercentileLower    float32
	LumPercentileUpper    float32
}

// IDPartitionEntry locates a record by source_id: the zone file it lives in
// and its byte position within that file.
type IDPartitionEntry struct {
	SourceID int64
	Position int64
	Zone     int32
}

// CrossIDEntry links one object's identifiers across the three schemes.
// Zero means the object has no identifier in that scheme.
type CrossIDEntry struct {
	Gaia  int64
	TMass int64
	HAT   int64
}

// Get returns the identifier for the given scheme.
func (e CrossIDEntry) Get(s IDScheme) int64 {
	switch s {
	case TMass:
		return e.TMass
	case HAT:
		return e.HAT
	default:
		return e.Gaia
	}
}

// MagLimits bounds the three photometric bands. A nil bound is unconstrained.
type MagLimits struct {
	GMin, GMax   *float64
	BPMin, BPMax *float64
	RPMin, RPMax *float64
}

// IsZero reports whether no bound is set.
func (m MagLimits) IsZero() bool {
	return m.GMin == nil && m.GMax == nil &&
		m.BPMin == nil && m.BPMax == nil &&
		m.RPMin == nil && m.RPMax == nil
}
