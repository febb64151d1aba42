package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/jkim117/gaia2read"
	"github.com/jkim117/gaia2read/astro"
	"github.com/jkim117/gaia2read/internal/output"
	"github.com/jkim117/gaia2read/model"
	"github.com/spf13/cobra"
)

type queryFlags struct {
	ra, dec, pos string
	size         float64
	circ         bool
	id           string
	idFile       string
	idType       string
	idRequest    string
	pm           string
	precess      string
	header       bool
	extra        bool
	out          string
	cmdline      bool

	gmin, gmax, bpmin, bpmax, rpmin, rpmax float64
}

func newQueryCmd(a *app) *cobra.Command {
	f := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "query [flags] [ID...]",
		Short: "Retrieve stars in a box, a circle or by identifier",
		Long: `Retrieve stars in a box (--size is the side) or a circle (--circ, --size
is the radius) around --pos, or by identifier. IDs are read from the
arguments, --id and --idfile; an argument starting with @ names an ID file.
With neither a position nor IDs the whole sky is returned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, a, f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.ra, "ra", "r", "", "RA of the field center: degrees or HH:MM:SS.sss")
	fl.StringVarP(&f.dec, "dec", "d", "", "Dec of the field center: degrees or DD:MM:SS.sss")
	fl.StringVarP(&f.pos, "pos", "p", "", `field center as "ra dec" or ra,dec`)
	fl.Float64VarP(&f.size, "size", "s", 0, "side of the box or radius of the circle in degrees")
	fl.BoolVarP(&f.circ, "circ", "c", false, "circular field instead of a box")
	fl.StringVarP(&f.id, "id", "g", "", "retrieve one source by ID")
	fl.StringVar(&f.idFile, "idfile", "", "read IDs from a file, one per line, # starts a comment")
	fl.StringVar(&f.idType, "idtype", "GAIA", "scheme of the input IDs: GAIA, TMASS or HAT")
	fl.StringVar(&f.idRequest, "idrequest", "GAIA", "scheme of the printed IDs: GAIA, TMASS or HAT")
	fl.StringVar(&f.pm, "pm", "", "propagate positions by proper motion to this epoch (years)")
	fl.StringVar(&f.precess, "precess", "", "precess positions to this equinox (years)")
	fl.BoolVar(&f.header, "header", false, "print a column header")
	fl.BoolVar(&f.extra, "extra", false, "print photometric and astrophysical columns")
	fl.StringVarP(&f.out, "out", "o", "", "output file; .zst and .lz4 are compressed")
	fl.BoolVar(&f.cmdline, "cmdline", false, "print the command line first")
	fl.Float64Var(&f.gmin, "gmin", 0, "minimum G magnitude")
	fl.Float64Var(&f.gmax, "gmax", 0, "maximum G magnitude")
	fl.Float64Var(&f.bpmin, "bpmin", 0, "minimum BP magnitude")
	fl.Float64Var(&f.bpmax, "bpmax", 0, "maximum BP magnitude")
	fl.Float64Var(&f.rpmin, "rpmin", 0, "minimum RP magnitude")
	fl.Float64Var(&f.rpmax, "rpmax", 0, "maximum RP magnitude")
	return cmd
}

func usageErr(format string, args ...any) error {
	return &exitError{code: 1, err: fmt.Errorf(format, args...)}
}

// request turns the area flags into a query. area reports whether a
// position was given.
func (f *queryFlags) request(cmd *cobra.Command) (q gaia2read.Query, area bool, err error) {
	raSet, decSet := f.ra != "", f.dec != ""
	if f.pos != "" {
		if q.RA, q.Dec, err = astro.ParsePos(f.pos); err != nil {
			return q, false, usageErr("invalid position %s", f.pos)
		}
		raSet, decSet = true, true
	}
	if f.ra != "" {
		if q.RA, err = astro.ParseRA(f.ra); err != nil {
			return q, false, usageErr("invalid RA %s", f.ra)
		}
	}
	if f.dec != "" {
		if q.Dec, err = astro.ParseDec(f.dec); err != nil {
			return q, false, usageErr("invalid Dec %s", f.dec)
		}
	}
	if raSet != decSet {
		return q, false, usageErr("invalid input coordinate")
	}
	if math.IsNaN(f.size) || f.size < 0 || f.size > 360 {
		return q, false, usageErr("invalid size %g", f.size)
	}
	if raSet {
		if q.RA < 0 || q.RA > 360 || q.Dec < -90 || q.Dec > 90 {
			return q, false, usageErr("center %g %g out of range", q.RA, q.Dec)
		}
		if f.size <= 0 {
			return q, false, usageErr("invalid or missing frame size")
		}
	}
	q.Size = f.size
	q.Circle = f.circ

	if f.pm != "" {
		epoch, err := astro.ParseEpoch(f.pm)
		if err != nil {
			return q, false, usageErr("%v", err)
		}
		q.Epoch = &epoch
	}

	var mags gaia2read.MagLimits
	bind := func(name string, v float64, dst **float64) {
		if cmd.Flags().Changed(name) {
			*dst = &v
		}
	}
	bind("gmin", f.gmin, &mags.GMin)
	bind("gmax", f.gmax, &mags.GMax)
	bind("bpmin", f.bpmin, &mags.BPMin)
	bind("bpmax", f.bpmax, &mags.BPMax)
	bind("rpmin", f.rpmin, &mags.RPMin)
	bind("rpmax", f.rpmax, &mags.RPMax)
	if !mags.IsZero() {
		q.Mags = &mags
	}
	return q, raSet, nil
}

// collectIDs gathers the raw ID strings from --id, --idfile and the
// arguments, expanding @file arguments.
func (f *queryFlags) collectIDs(args []string) ([]string, error) {
	var ids []string
	add := func(id string) error {
		if id == "" {
			return nil
		}
		if strings.HasPrefix(id, "@") {
			more, err := readIDFile(id[1:])
			if err != nil {
				return err
			}
			ids = append(ids, more...)
			return nil
		}
		ids = append(ids, id)
		return nil
	}

	if err := add(f.id); err != nil {
		return nil, err
	}
	if f.idFile != "" {
		more, err := readIDFile(f.idFile)
		if err != nil {
			return nil, err
		}
		ids = append(ids, more...)
	}
	for _, arg := range args {
		if err := add(arg); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func readIDFile(path string) ([]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open input ID file %s: %w", path, err)
	}
	defer fh.Close()

	var ids []string
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			ids = append(ids, line)
		}
	}
	return ids, sc.Err()
}

func runQuery(cmd *cobra.Command, a *app, f *queryFlags, args []string) error {
	ctx := cmd.Context()

	q, area, err := f.request(cmd)
	if err != nil {
		return err
	}
	inScheme, err := model.ParseIDScheme(f.idType)
	if err != nil {
		return usageErr("invalid ID type %s", f.idType)
	}
	outScheme, err := model.ParseIDScheme(f.idRequest)
	if err != nil {
		return usageErr("invalid ID type %s", f.idRequest)
	}
	var equinox *float64
	if f.precess != "" {
		e, err := astro.ParseEpoch(f.precess)
		if err != nil {
			return usageErr("invalid date-time %s", f.precess)
		}
		equinox = &e
	}

	ids, err := f.collectIDs(args)
	if err != nil {
		return err
	}
	if area && len(ids) > 0 {
		return usageErr("cannot do area and ID search at the same time")
	}
	if !area && len(ids) == 0 {
		if f.size > 0 {
			return usageErr("nothing to search for")
		}
		q = gaia2read.Query{Size: -1, Epoch: q.Epoch, Mags: q.Mags}
	}

	c, err := a.openCatalog(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	defer a.reportStats(cmd.ErrOrStderr(), c)

	var stars []model.Star
	if len(ids) > 0 {
		stars, err = starsFromIDs(ctx, c, ids, inScheme, q.Epoch)
	} else {
		stars, err = c.StarPosSearch(ctx, q, nil)
	}
	if err != nil {
		return err
	}
	if len(stars) == 0 {
		return errNoStar
	}
	if equinox != nil {
		gaia2read.Precess(stars, *equinox)
	}

	w, err := output.Create(f.out, cmd.OutOrStdout())
	if err != nil {
		return &exitError{code: 11, err: fmt.Errorf("cannot open file %s: %w", f.out, err)}
	}
	p := output.NewPrinter(w, f.extra)
	if f.header {
		p.Header(outScheme)
	}
	if f.cmdline {
		p.Comment(strings.Join(os.Args, " "))
	}
	if outScheme == model.Gaia {
		p.Stars(stars)
	} else {
		alt, err := c.StarListToIDs(ctx, stars, outScheme)
		if err != nil {
			_ = w.Close()
			return err
		}
		p.StarsWithIDs(stars, alt, outScheme)
	}
	return errors.Join(p.Flush(), w.Close())
}

func starsFromIDs(ctx context.Context, c *gaia2read.Catalog, ids []string, scheme model.IDScheme, epoch *float64) ([]model.Star, error) {
	if scheme == model.Gaia {
		return c.StarsFromID(ctx, ids, epoch)
	}
	gaia := make([]string, len(ids))
	for i, id := range ids {
		g, err := c.ToGaiaID(ctx, id, scheme)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", scheme.Label(), id, err)
		}
		gaia[i] = g
	}
	return c.StarsFromID(ctx, gaia, epoch)
}
