package gaia2read

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jkim117/gaia2read/astro"
	"github.com/jkim117/gaia2read/blobstore"
	"github.com/jkim117/gaia2read/idindex"
	"github.com/jkim117/gaia2read/internal/cache"
	"github.com/jkim117/gaia2read/internal/resource"
	"github.com/jkim117/gaia2read/model"
	"github.com/jkim117/gaia2read/query"
	"github.com/jkim117/gaia2read/zone"
)

// Query describes a positional query: a box of side Size or a circle of
// radius Size (degrees) around (RA, Dec), or the whole sky when Size <= 0.
// Epoch propagates candidates by proper motion before they are tested;
// Mags bounds their magnitudes.
type Query = query.Request

// MagLimits bounds the G, BP and RP magnitudes of a query.
type MagLimits = model.MagLimits

// CacheKindStats holds the block cache hits and misses for one file kind.
type CacheKindStats = cache.KindStats

// defaultIOCacheBytes is the cache used when only an IO limit is set.
const defaultIOCacheBytes = 16 << 20

// Catalog is a handle to one copy of the catalog. It holds no open files
// between calls and is safe for concurrent use.
type Catalog struct {
	store   blobstore.BlobStore
	engine  *query.Engine
	ids     *idindex.Index
	cache   *cache.LRUBlockCache
	rc      *resource.Controller
	logger  *Logger
	metrics MetricsCollector
}

// Open returns a Catalog reading from store.
func Open(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*Catalog, error) {
	if store == nil {
		return nil, errors.New("gaia2read: nil store")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o := options{}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}

	c := &Catalog{
		logger:  o.logger,
		metrics: o.metricsCollector,
	}

	if o.limits != nil || o.ioBytesPerSec > 0 {
		cfg := ResourceLimits{}
		if o.limits != nil {
			cfg = *o.limits
		}
		if o.ioBytesPerSec > 0 {
			cfg.IOLimitBytesPerSec = o.ioBytesPerSec
		}
		if o.parallelism > 1 && cfg.MaxConcurrentScans == 0 {
			cfg.MaxConcurrentScans = int64(o.parallelism)
		}
		c.rc = resource.NewController(cfg)
	}

	cacheBytes := o.blockCacheBytes
	if cacheBytes <= 0 && o.ioBytesPerSec > 0 {
		cacheBytes = defaultIOCacheBytes
	}
	if cacheBytes > 0 {
		c.cache = cache.NewLRUBlockCache(cacheBytes, c.rc)
		store = blobstore.NewCachingStore(store, c.cache, o.blockSize, c.rc)
	}

	c.store = store
	c.engine = query.NewEngine(store,
		query.WithParallelism(o.parallelism),
		query.WithResourceController(c.rc),
	)
	c.ids = idindex.New(store)
	return c, nil
}

// OpenLocal returns a Catalog over the files under root. The files are
// memory-mapped on demand.
func OpenLocal(root string, optFns ...Option) (*Catalog, error) {
	c, err := Open(context.Background(), blobstore.NewLocalStore(root), optFns...)
	if err != nil {
		return nil, err
	}
	c.logger = c.logger.WithCatalog(root)
	return c, nil
}

// Close releases the block cache. The Catalog must not be used afterwards.
func (c *Catalog) Close() error {
	if c == nil || c.cache == nil {
		return nil
	}
	return c.cache.Close()
}

// Store returns the store the Catalog reads from, including any cache.
func (c *Catalog) Store() blobstore.BlobStore {
	return c.store
}

// CacheStats returns the block cache's hit and miss counts per file kind.
// It is empty when no cache is configured.
func (c *Catalog) CacheStats() map[string]CacheKindStats {
	out := make(map[string]CacheKindStats)
	if c.cache == nil {
		return out
	}
	for k, v := range c.cache.StatsByKind() {
		out[k.String()] = v
	}
	return out
}

// StarPosCount returns the number of stars matching q.
func (c *Catalog) StarPosCount(ctx context.Context, q Query) (int, error) {
	start := time.Now()
	n, st, err := c.engine.Count(ctx, q)
	d := time.Since(start)

	c.metrics.RecordCount(st, d, err)
	c.logger.LogQuery(ctx, "count", q, st, d, err)
	return n, translateError(err)
}

// StarPosSearch appends the stars matching q to out[:0] and returns the
// extended slice, ordered by zone and then by position within the zone.
// out is only reallocated when its capacity is too small.
func (c *Catalog) StarPosSearch(ctx context.Context, q Query, out []model.Star) ([]model.Star, error) {
	start := time.Now()
	out, st, err := c.engine.Search(ctx, q, out)
	d := time.Since(start)

	c.metrics.RecordSearch(st, d, err)
	c.logger.LogQuery(ctx, "search", q, st, d, err)
	if err != nil {
		return nil, translateError(err)
	}
	return out, nil
}

// StarFromID returns the star with the given Gaia source_id, propagated to
// epoch when epoch is not nil.
func (c *Catalog) StarFromID(ctx context.Context, id int64, epoch *float64) (model.Star, error) {
	start := time.Now()
	s, err := c.starFromID(ctx, id, epoch)
	c.metrics.RecordLookup(time.Since(start), err)
	c.logger.LogLookup(ctx, id, err)
	return s, translateError(err)
}

func (c *Catalog) starFromID(ctx context.Context, id int64, epoch *float64) (model.Star, error) {
	var s model.Star
	e, err := c.ids.LookupGaiaID(ctx, id)
	if err != nil {
		return s, err
	}
	if err := zone.ReadRecord(ctx, c.store, int(e.Zone), e.Position, &s); err != nil {
		return s, err
	}
	if s.SourceID != id {
		return model.Star{}, fmt.Errorf("%w: partition entry for %d points at %d", zone.ErrCorrupt, id, s.SourceID)
	}
	if epoch != nil {
		s.RA, s.Dec = astro.ApplyProperMotion(s.RA, s.Dec, s.PMRA, s.PMDec, *epoch-astro.CatalogEpoch)
	}
	return s, nil
}

// StarsFromID resolves decimal Gaia ids in order. Any id that is missing
// fails the whole call with ErrIdentifierNotFound.
func (c *Catalog) StarsFromID(ctx context.Context, ids []string, epoch *float64) ([]model.Star, error) {
	out := make([]model.Star, 0, len(ids))
	for _, text := range ids {
		id, err := model.Gaia.Parse(text)
		if err != nil {
			return nil, translateError(err)
		}
		s, err := c.StarFromID(ctx, id, epoch)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Translate converts a packed identifier between schemes.
func (c *Catalog) Translate(ctx context.Context, id int64, from, to model.IDScheme) (int64, error) {
	start := time.Now()
	other, err := c.ids.TranslateID(ctx, id, from, to)
	c.metrics.RecordTranslate(1, time.Since(start), err)
	c.logger.LogTranslate(ctx, from, to, 1, err)
	return other, translateError(err)
}

// ToGaiaID parses otherID in scheme and returns the decimal Gaia id of
// the same object. Gaia input is returned unchanged.
func (c *Catalog) ToGaiaID(ctx context.Context, otherID string, scheme model.IDScheme) (string, error) {
	if scheme == model.Gaia {
		return otherID, nil
	}
	id, err := scheme.Parse(otherID)
	if err != nil {
		return "", translateError(err)
	}
	gaia, err := c.Translate(ctx, id, scheme, model.Gaia)
	if err != nil {
		return "", err
	}
	return model.Gaia.Format(gaia), nil
}

// StarListToIDs returns the scheme identifier of each star, or 0 where the
// star has none.
func (c *Catalog) StarListToIDs(ctx context.Context, stars []model.Star, scheme model.IDScheme) ([]int64, error) {
	ids := make([]int64, len(stars))
	for i := range stars {
		ids[i] = stars[i].SourceID
	}

	start := time.Now()
	out, err := c.ids.TranslateMany(ctx, ids, model.Gaia, scheme)
	c.metrics.RecordTranslate(len(ids), time.Since(start), err)
	c.logger.LogTranslate(ctx, model.Gaia, scheme, len(ids), err)
	return out, translateError(err)
}

// Precess converts the J2000 positions of stars to the mean equinox of the
// given epoch in place.
func Precess(stars []model.Star, equinox float64) {
	for i := range stars {
		stars[i].RA, stars[i].Dec = astro.PrecessFromJ2000(stars[i].RA, stars[i].Dec, equinox)
	}
}
