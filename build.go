package gaia2read

import (
	"context"
	"fmt"
	"sync"

	"github.com/jkim117/gaia2read/blobstore"
	"github.com/jkim117/gaia2read/idindex"
	"github.com/jkim117/gaia2read/model"
	"github.com/jkim117/gaia2read/zone"
	"golang.org/x/sync/errgroup"
)

// BuildOptions configures Build.
type BuildOptions struct {
	// Parallelism is the number of zone files written at once. Default: 4.
	Parallelism int
	// Logger receives progress records. Default: discard.
	Logger *Logger
}

// Build writes a complete catalog for stars into store: all 900 zone files
// (empty ones included), the nine source_id partitions and, when crossIDs
// is not empty, the three cross-identifier tables.
func Build(ctx context.Context, store blobstore.WritableStore, stars []model.Star, crossIDs []model.CrossIDEntry, opts BuildOptions) error {
	if opts.Parallelism <= 0 {
		opts.Parallelism = 4
	}
	logger := opts.Logger
	if logger == nil {
		logger = NoopLogger()
	}

	byZone := make([][]model.Star, zone.Count+1)
	for i := range stars {
		z := zone.ForDec(stars[i].Dec)
		byZone[z] = append(byZone[z], stars[i])
	}

	var (
		mu      sync.Mutex
		entries = make([]model.IDPartitionEntry, 0, len(stars))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for z := 1; z <= zone.Count; z++ {
		g.Go(func() error {
			e, err := zone.Write(gctx, store, z, byZone[z])
			if err != nil {
				return fmt.Errorf("zone %d: %w", z, err)
			}
			mu.Lock()
			entries = append(entries, e...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.InfoContext(ctx, "zone files written", "stars", len(stars))

	if err := idindex.WritePartitions(ctx, store, entries); err != nil {
		return fmt.Errorf("id partitions: %w", err)
	}
	logger.InfoContext(ctx, "id partitions written", "entries", len(entries))

	if len(crossIDs) == 0 {
		return nil
	}
	if err := idindex.WriteCrossIDs(ctx, store, crossIDs); err != nil {
		return fmt.Errorf("cross ids: %w", err)
	}
	logger.InfoContext(ctx, "cross-id tables written", "entries", len(crossIDs))
	return nil
}
