package output

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/jkim117/gaia2read/model"
)

const na = "n/a"

const headerBase = "%s ID[1] RA[deg][2] Dec[deg][3] RAError[mas][4] DecError[mas][5] Parallax[mas][6] " +
	"Parallax_error[mas][7] PM_RA[mas/yr][8] PM_Dec[mas/year][9] PMRA_error[mas/yr][10] " +
	"PMDec_error[mas/yr][11] Ref_Epoch[yr][12] AstExcNoise[mas][13] AstExcNoiseSig[14] AstPriFlag[15]"

const headerExtra = " phot_g_n_obs[16] phot_g_mean_flux[17] phot_g_mean_flux_error[18] " +
	"phot_g_mean_flux_over_error[19] phot_g_mean_mag[20] phot_bp_n_obs[21] phot_bp_mean_flux[22] " +
	"phot_bp_mean_flux_error[23] phot_bp_mean_flux_over_error[24] phot_bp_mean_mag[25] " +
	"phot_rp_n_obs[26] phot_rp_mean_flux[27] phot_rp_mean_flux_error[28] " +
	"phot_rp_mean_flux_over_error[29] phot_rp_mean_mag[30] phot_bp_rp_excess_factor[31] " +
	"radial_velocity[32] radial_velocity_error[33] phot_variable_flag[34] teff_val[35] " +
	"teff_percentile_lower[36] teff_percentile_upper[37] a_g_val[38] a_g_percentile_lower[39] " +
	"a_g_percentile_upper[40] e_bp_min_rp_val[41] e_bp_min_rp_percentile_lower[42] " +
	"e_bp_min_rp_percentile_upper[43] radius_val[44] radius_percentile_lower[45] " +
	"radius_percentile_upper[46] lum_val[47] lum_percentile_lower[48] lum_percentile_upper[49]"

// Printer writes one line per star: the identifier, the astrometric
// columns and, with Extra, the photometric and astrophysical ones.
// Unavailable values print as "n/a".
type Printer struct {
	w     *bufio.Writer
	Extra bool
}

// NewPrinter returns a Printer writing to w. Call Flush when done.
func NewPrinter(w io.Writer, extra bool) *Printer {
	return &Printer{w: bufio.NewWriter(w), Extra: extra}
}

// Flush writes any buffered output.
func (p *Printer) Flush() error {
	return p.w.Flush()
}

// Header writes the column header for identifiers of scheme.
func (p *Printer) Header(scheme model.IDScheme) {
	fmt.Fprintf(p.w, headerBase, scheme.Label())
	if p.Extra {
		p.w.WriteString(headerExtra)
	}
	p.w.WriteByte('\n')
}

// Comment writes text as a "# " prefixed line.
func (p *Printer) Comment(text string) {
	p.w.WriteString("# ")
	p.w.WriteString(text)
	p.w.WriteByte('\n')
}

// Stars writes stars labelled with their Gaia ids.
func (p *Printer) Stars(stars []model.Star) {
	for i := range stars {
		p.w.WriteString(model.Gaia.Format(stars[i].SourceID))
		p.star(&stars[i])
	}
}

// StarsWithIDs writes stars labelled with ids in scheme, each prefixed by
// the catalog name. A zero id falls back to the Gaia id.
func (p *Printer) StarsWithIDs(stars []model.Star, ids []int64, scheme model.IDScheme) {
	for i := range stars {
		var id int64
		if i < len(ids) {
			id = ids[i]
		}
		if id == 0 || scheme == model.Gaia {
			p.w.WriteString("GAIA ")
			p.w.WriteString(model.Gaia.Format(stars[i].SourceID))
		} else {
			p.w.WriteString(scheme.Label())
			p.w.WriteByte(' ')
			p.w.WriteString(scheme.Format(id))
		}
		p.star(&stars[i])
	}
}

func (p *Printer) star(s *model.Star) {
	p.wide(s.RA)
	p.wide(s.Dec)
	p.wide(s.RAError)
	p.wide(s.DecError)
	p.narrow(s.Parallax)
	p.narrow(s.ParallaxError)
	p.wide(s.PMRA)
	p.wide(s.PMDec)
	p.wide(s.PMRAError)
	p.wide(s.PMDecError)
	p.epoch(s.RefEpoch)
	p.wide(s.AstrometricExcessNoise)
	p.wide(s.AstrometricExcessNoiseSig)
	if s.AstrometricPrimaryFlag {
		p.w.WriteString(" true")
	} else {
		p.w.WriteString(" false")
	}

	if p.Extra {
		fmt.Fprintf(p.w, " %d", s.PhotGNObs)
		p.wide(s.PhotGMeanFlux)
		p.wide(s.PhotGMeanFluxError)
		p.wide(float64(s.PhotGMeanFluxOverErr))
		p.wide(float64(s.PhotGMeanMag))

		fmt.Fprintf(p.w, " %d", s.PhotBPNObs)
		p.wide(s.PhotBPMeanFlux)
		p.wide(s.PhotBPMeanFluxError)
		p.wide(float64(s.PhotBPMeanFluxOverErr))
		p.wide(float64(s.PhotBPMeanMag))

		fmt.Fprintf(p.w, " %d", s.PhotRPNObs)
		p.wide(s.PhotRPMeanFlux)
		p.wide(s.PhotRPMeanFluxError)
		p.wide(float64(s.PhotRPMeanFluxOverErr))
		p.wide(float64(s.PhotRPMeanMag))

		p.wide(float64(s.PhotBPRPExcessFactor))
		p.wide(s.RadialVelocity)
		p.wide(s.RadialVelocityError)
		if s.PhotVariableFlag {
			p.w.WriteString(" VARIABLE")
		} else {
			p.w.WriteString(" NOT_AVAILABLE")
		}

		for _, v := range [...]float32{
			s.TeffVal, s.TeffPercentileLower, s.TeffPercentileUpper,
			s.AGVal, s.AGPercentileLower, s.AGPercentileUpper,
			s.EBPMinRPVal, s.EBPMinRPPercentileLow, s.EBPMinRPPercentileUp,
			s.RadiusVal, s.RadiusPercentileLower, s.RadiusPercentileUpper,
			s.LumVal, s.LumPercentileLower, s.LumPercentileUpper,
		} {
			p.wide(float64(v))
		}
	}
	p.w.WriteByte('\n')
}

func (p *Printer) wide(v float64) {
	if model.IsNotAvailable(v) {
		fmt.Fprintf(p.w, " %14s", na)
		return
	}
	fmt.Fprintf(p.w, " %14.10f", v)
}

func (p *Printer) narrow(v float64) {
	if model.IsNotAvailable(v) {
		fmt.Fprintf(p.w, " %9s", na)
		return
	}
	fmt.Fprintf(p.w, " %9.4f", v)
}

func (p *Printer) epoch(v float64) {
	if model.IsNotAvailable(v) || math.IsNaN(v) {
		fmt.Fprintf(p.w, " %9s", na)
		return
	}
	fmt.Fprintf(p.w, " %5.1f", v)
}
