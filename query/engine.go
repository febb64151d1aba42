package query

import (
	"context"
	"sync/atomic"

	"github.com/jkim117/gaia2read/blobstore"
	"github.com/jkim117/gaia2read/codec"
	"github.com/jkim117/gaia2read/internal/resource"
	"github.com/jkim117/gaia2read/model"
	"github.com/jkim117/gaia2read/zone"
	"golang.org/x/sync/errgroup"
)

// Stats describes the work one query did.
type Stats struct {
	// Zones is the number of zone files opened.
	Zones int64
	// Scanned is the number of records inside the RA runs.
	Scanned int64
	// Candidates is the number of records that passed the declination band
	// and the duplicate check and were handed to the filter.
	Candidates int64
	// Accepted is the number of records the filter accepted.
	Accepted int64
}

func (s *Stats) add(o Stats) {
	s.Zones += o.Zones
	s.Scanned += o.Scanned
	s.Candidates += o.Candidates
	s.Accepted += o.Accepted
}

// Engine runs positional queries against a store holding zone files.
// It is safe for concurrent use.
type Engine struct {
	store       blobstore.BlobStore
	parallelism int
	rc          *resource.Controller
}

// Option configures an Engine.
type Option func(*Engine)

// WithParallelism scans up to n zones at once. n <= 1 scans sequentially.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		e.parallelism = n
	}
}

// WithResourceController bounds concurrent zone scans across every query
// sharing rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(e *Engine) {
		e.rc = rc
	}
}

// NewEngine creates an engine reading zone files from store.
func NewEngine(store blobstore.BlobStore, opts ...Option) *Engine {
	e := &Engine{store: store, parallelism: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Count returns the number of records matching req.
func (e *Engine) Count(ctx context.Context, req Request) (int, Stats, error) {
	if err := req.Validate(); err != nil {
		return 0, Stats{}, err
	}
	fp := NewFootprint(req)
	zones := fp.Zones.ToArray()

	var st Stats
	if e.parallelism <= 1 || len(zones) == 1 {
		for _, z := range zones {
			zs, err := e.scanZone(ctx, fp, req, int(z), func(*model.Star) {})
			st.add(zs)
			if err != nil {
				return 0, st, err
			}
		}
		return int(st.Accepted), st, nil
	}

	var acc atomicStats
	err := e.forEachZone(ctx, zones, func(ctx context.Context, _ int, z int) error {
		zs, err := e.scanZone(ctx, fp, req, z, func(*model.Star) {})
		acc.add(zs)
		return err
	})
	st = acc.load()
	if err != nil {
		return 0, st, err
	}
	return int(st.Accepted), st, nil
}

// Search appends the records matching req to out[:0] and returns the
// extended slice.
func (e *Engine) Search(ctx context.Context, req Request, out []model.Star) ([]model.Star, Stats, error) {
	out = out[:0]
	if err := req.Validate(); err != nil {
		return out, Stats{}, err
	}
	fp := NewFootprint(req)
	zones := fp.Zones.ToArray()

	var st Stats
	if e.parallelism <= 1 || len(zones) == 1 {
		for _, z := range zones {
			zs, err := e.scanZone(ctx, fp, req, int(z), func(s *model.Star) {
				out = append(out, *s)
			})
			st.add(zs)
			if err != nil {
				return out, st, err
			}
		}
		return out, st, nil
	}

	perZone := make([][]model.Star, len(zones))
	var acc atomicStats
	err := e.forEachZone(ctx, zones, func(ctx context.Context, i int, z int) error {
		var found []model.Star
		zs, err := e.scanZone(ctx, fp, req, z, func(s *model.Star) {
			found = append(found, *s)
		})
		perZone[i] = found
		acc.add(zs)
		return err
	})
	st = acc.load()
	if err != nil {
		return out, st, err
	}
	for _, found := range perZone {
		out = append(out, found...)
	}
	return out, st, nil
}

// forEachZone runs fn for every zone with at most e.parallelism running.
func (e *Engine) forEachZone(ctx context.Context, zones []uint32, fn func(ctx context.Context, i int, z int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i, z := range zones {
		g.Go(func() error {
			return fn(gctx, i, int(z))
		})
	}
	return g.Wait()
}

// scanZone scans the RA runs of one zone and calls emit for each accepted
// record. The record passed to emit is reused after emit returns.
func (e *Engine) scanZone(ctx context.Context, fp Footprint, req Request, z int, emit func(*model.Star)) (Stats, error) {
	var st Stats
	if err := ctx.Err(); err != nil {
		return st, err
	}
	if err := e.rc.AcquireScan(ctx); err != nil {
		return st, err
	}
	defer e.rc.ReleaseScan()

	f, err := zone.Open(ctx, e.store, z)
	if err != nil {
		return st, err
	}
	defer func() { _ = f.Close() }()
	st.Zones = 1

	filter := NewFilter(req)
	var s model.Star
	for _, p := range fp.passes() {
		from, err := f.LocateBoundary(ctx, p.fromSub, p.fromRA, true)
		if err != nil {
			return st, err
		}
		to, err := f.LocateBoundary(ctx, p.toSub, p.toRA, false)
		if err != nil {
			return st, err
		}

		var prevID int64
		havePrev := false
		err = f.Scan(ctx, from, to, func(_ int64, rec []byte) error {
			st.Scanned++
			dec := codec.Dec(rec)
			if dec > fp.DecMax || dec < fp.DecMin {
				return nil
			}
			id := codec.SourceID(rec)
			if havePrev && id == prevID {
				return nil
			}
			prevID, havePrev = id, true
			st.Candidates++

			if err := codec.DecodeStar(rec, &s); err != nil {
				return err
			}
			if filter.Accept(&s) {
				st.Accepted++
				emit(&s)
			}
			return nil
		})
		if err != nil {
			return st, err
		}
	}
	return st, nil
}

type atomicStats struct {
	zones, scanned, candidates, accepted atomic.Int64
}

func (a *atomicStats) add(s Stats) {
	a.zones.Add(s.Zones)
	a.scanned.Add(s.Scanned)
	a.candidates.Add(s.Candidates)
	a.accepted.Add(s.Accepted)
}

func (a *atomicStats) load() Stats {
	return Stats{
		Zones:      a.zones.Load(),
		Scanned:    a.scanned.Load(),
		Candidates: a.candidates.Load(),
		Accepted:   a.accepted.Load(),
	}
}
