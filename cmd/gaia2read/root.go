package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jkim117/gaia2read"
	"github.com/jkim117/gaia2read/internal/config"
	gaiaprom "github.com/jkim117/gaia2read/prometheus"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// remoteCacheBytes is the block cache used for remote catalogs when none
// is configured.
const remoteCacheBytes = 64 << 20

// exitError carries a process exit status.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

var errNoStar = &exitError{code: 1, err: errors.New("no star found")}

type app struct {
	catalog  string
	verbose  bool
	parallel int
	cache    int64
	ioLimit  int64
	stats    bool

	logger   *gaia2read.Logger
	registry *prom.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "gaia2read",
		Short:         "Query the Gaia DR2 catalog by sky position or identifier",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			a.logger = config.Logger(a.verbose)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.catalog, "catalog", "", "catalog root: directory, s3://bucket/prefix or minio://host/bucket/prefix")
	pf.BoolVar(&a.verbose, "verbose", false, "log at debug level")
	pf.IntVar(&a.parallel, "parallel", 1, "zone files scanned at once")
	pf.Int64Var(&a.cache, "cache", 0, "block cache size in bytes (default 64 MiB for remote catalogs)")
	pf.Int64Var(&a.ioLimit, "io-limit", 0, "cap on remote reads in bytes per second")
	pf.BoolVar(&a.stats, "stats", false, "print operation metrics to stderr on exit")

	root.AddCommand(
		newQueryCmd(a),
		newTranslateCmd(a),
		newBuildCmd(a),
		newPublishCmd(a),
		newVersionCmd(),
	)
	return root
}

// openCatalog resolves the catalog root and opens it with the global
// flags applied.
func (a *app) openCatalog(ctx context.Context) (*gaia2read.Catalog, error) {
	root, src := config.ResolveRoot(a.catalog)
	loc, err := config.ParseLocation(root)
	if err != nil {
		return nil, err
	}
	a.logger.DebugContext(ctx, "catalog resolved", "root", loc.String(), "source", string(src))

	store, err := config.OpenStore(ctx, loc)
	if err != nil {
		return nil, err
	}

	opts := []gaia2read.Option{
		gaia2read.WithLogger(a.logger.WithCatalog(loc.String())),
		gaia2read.WithParallelism(a.parallel),
	}
	cache := a.cache
	if cache == 0 && loc.Remote() {
		cache = remoteCacheBytes
	}
	if cache > 0 {
		opts = append(opts, gaia2read.WithBlockCache(cache))
	}
	if a.ioLimit > 0 {
		opts = append(opts, gaia2read.WithIORateLimit(a.ioLimit))
	}
	if a.stats {
		a.registry = prom.NewRegistry()
		opts = append(opts, gaia2read.WithMetricsCollector(gaiaprom.NewCollector(a.registry)))
	}
	return gaia2read.Open(ctx, store, opts...)
}

// reportStats writes the gathered metrics and cache counters to w when
// --stats is set.
func (a *app) reportStats(w io.Writer, c *gaia2read.Catalog) {
	if !a.stats || a.registry == nil {
		return
	}
	families, err := a.registry.Gather()
	if err != nil {
		a.logger.Warn("gather metrics", "error", err)
		return
	}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			var labels []string
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			name := f.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "# %s %g\n", name, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Fprintf(w, "# %s count=%d sum=%g\n", name, h.GetSampleCount(), h.GetSampleSum())
			}
		}
	}

	cs := c.CacheStats()
	kinds := make([]string, 0, len(cs))
	for k := range cs {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "# cache{kind=%s} hits=%d misses=%d\n", k, cs[k].Hits, cs[k].Misses)
	}
}
