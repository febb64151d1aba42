package query

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/jkim117/gaia2read/blobstore"
	"github.com/jkim117/gaia2read/internal/resource"
	"github.com/jkim117/gaia2read/model"
	"github.com/jkim117/gaia2read/testutil"
	"github.com/jkim117/gaia2read/zone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildZones writes every zone file, empty where no star falls.
func buildZones(t *testing.T, store blobstore.WritableStore, stars []model.Star) {
	t.Helper()
	byZone := make(map[int][]model.Star)
	for _, s := range stars {
		z := zone.ForDec(s.Dec)
		byZone[z] = append(byZone[z], s)
	}
	for z := 1; z <= zone.Count; z++ {
		_, err := zone.Write(context.Background(), store, z, byZone[z])
		require.NoError(t, err)
	}
}

func ids(stars []model.Star) []int64 {
	out := make([]int64, len(stars))
	for i, s := range stars {
		out[i] = s.SourceID
	}
	return out
}

// bruteForce applies the filter to every star.
func bruteForce(req Request, stars []model.Star) []int64 {
	f := NewFilter(req)
	var out []int64
	for _, s := range stars {
		if f.Accept(&s) {
			out = append(out, s.SourceID)
		}
	}
	slices.Sort(out)
	return out
}

func sortedIDs(stars []model.Star) []int64 {
	out := ids(stars)
	slices.Sort(out)
	return out
}

func ptr(v float64) *float64 { return &v }

func TestSearch_BoxExample(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	buildZones(t, store, []model.Star{
		testutil.NewStar(1, 10.10, 5.0),
		testutil.NewStar(2, 10.20, 5.0),
		testutil.NewStar(3, 10.30, 5.0),
	})

	e := NewEngine(store)
	req := Request{RA: 10.20, Dec: 5.0, Size: 0.1}

	got, st, err := e.Search(ctx, req, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(got))
	assert.Equal(t, int64(1), st.Accepted)
	assert.GreaterOrEqual(t, st.Zones, int64(1))

	n, _, err := e.Count(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFootprint(t *testing.T) {
	t.Run("Box", func(t *testing.T) {
		fp := NewFootprint(Request{RA: 10.2, Dec: 5.0, Size: 0.1})
		assert.False(t, fp.Wraps())
		assert.InDelta(t, 10.15, fp.RAMin, 1e-3)
		assert.InDelta(t, 10.25, fp.RAMax, 1e-3)
		assert.InDelta(t, 4.95, fp.DecMin, 1e-3)
		assert.InDelta(t, 5.05, fp.DecMax, 1e-3)
		assert.Equal(t, []uint32{475, 476}, fp.Zones.ToArray())
	})

	t.Run("Wrap", func(t *testing.T) {
		fp := NewFootprint(Request{RA: 0.05, Dec: 10, Size: 0.4})
		assert.True(t, fp.Wraps())
		assert.Greater(t, fp.RAMin, 359.0)
		assert.Less(t, fp.RAMax, 1.0)
	})

	t.Run("NorthPole", func(t *testing.T) {
		fp := NewFootprint(Request{RA: 45, Dec: 89.9, Size: 0.5})
		assert.Equal(t, 0.0, fp.RAMin)
		assert.Equal(t, 360.0, fp.RAMax)
		assert.Equal(t, 90.0, fp.DecMax)
		assert.True(t, fp.Zones.Contains(900))
	})

	t.Run("SouthPole", func(t *testing.T) {
		fp := NewFootprint(Request{RA: 45, Dec: -89.9, Circle: true, Size: 0.2})
		assert.Equal(t, -90.0, fp.DecMin)
		assert.Equal(t, 360.0, fp.RAMax)
		assert.True(t, fp.Zones.Contains(1))
	})

	t.Run("FullSky", func(t *testing.T) {
		fp := NewFootprint(Request{Size: 0})
		assert.Equal(t, uint64(zone.Count), fp.Zones.GetCardinality())
		assert.Equal(t, -90.0, fp.DecMin)
		assert.Equal(t, 90.0, fp.DecMax)
	})

	t.Run("EpochMargin", func(t *testing.T) {
		plain := NewFootprint(Request{RA: 100, Dec: 0, Size: 0.1})
		padded := NewFootprint(Request{RA: 100, Dec: 0, Size: 0.1, Epoch: ptr(2025.5)})
		// 0.1 * 40001 mas/yr over 10 years is about 1.11 degrees.
		assert.InDelta(t, plain.DecMax+1.111, padded.DecMax, 1e-2)
		assert.InDelta(t, plain.DecMin-1.111, padded.DecMin, 1e-2)
	})
}

func TestSearch_WraparoundMatchesBruteForce(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(4711)
	stars := append(rng.StarsInBox(1500, 359, 360, 9, 11), rng.StarsInBox(1500, 0, 1, 9, 11)...)
	for i := range stars {
		stars[i].SourceID = int64(i + 1)
	}
	store := blobstore.NewMemoryStore()
	buildZones(t, store, stars)
	e := NewEngine(store)

	for _, req := range []Request{
		{RA: 0, Dec: 10, Size: 0.6},
		{RA: 359.9, Dec: 10.1, Size: 0.5},
		{RA: 0.1, Dec: 9.8, Circle: true, Size: 0.3},
		{RA: 359.95, Dec: 10, Circle: true, Size: 0.25},
		{RA: 0.5, Dec: 10, Size: 0.4},
	} {
		got, _, err := e.Search(ctx, req, nil)
		require.NoError(t, err)
		want := bruteForce(req, stars)
		require.NotEmpty(t, want)
		assert.Equal(t, want, sortedIDs(got), "request %+v", req)
	}
}

func TestSearch_RandomMatchesBruteForce(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(99)
	stars := rng.StarsInBox(4000, 40, 44, -21, -17)
	store := blobstore.NewMemoryStore()
	buildZones(t, store, stars)

	for _, parallel := range []int{1, 4} {
		e := NewEngine(store, WithParallelism(parallel))
		for range 20 {
			req := Request{
				RA:     rng.Uniform(40.5, 43.5),
				Dec:    rng.Uniform(-20.5, -17.5),
				Circle: rng.Intn(2) == 0,
				Size:   rng.Uniform(0.05, 0.8),
			}
			got, st, err := e.Search(ctx, req, nil)
			require.NoError(t, err)
			assert.Equal(t, bruteForce(req, stars), sortedIDs(got), "request %+v", req)
			assert.Equal(t, int64(len(got)), st.Accepted)
		}
	}
}

func TestSearch_PoleContainment(t *testing.T) {
	ctx := context.Background()
	var stars []model.Star
	for i, ra := range []float64{0, 45, 90, 135, 180, 225, 270, 315, 359.9} {
		stars = append(stars, testutil.NewStar(int64(i+1), ra, 89.95))
	}
	store := blobstore.NewMemoryStore()
	buildZones(t, store, stars)

	req := Request{RA: 0, Dec: 89.9, Size: 0.5}
	got, _, err := NewEngine(store).Search(ctx, req, nil)
	require.NoError(t, err)
	assert.Len(t, got, len(stars))
	assert.Equal(t, bruteForce(req, stars), sortedIDs(got))
}

func TestSearch_DuplicateSuppression(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	buildZones(t, store, []model.Star{
		testutil.NewStar(1, 10.200, 5.02),
		testutil.NewStar(2, 10.205, 5.15), // same zone, outside the band
		testutil.NewStar(1, 10.210, 5.02),
		testutil.NewStar(3, 10.215, 5.02),
		testutil.NewStar(3, 10.215, 5.02),
	})

	got, st, err := NewEngine(store).Search(ctx, Request{RA: 10.2, Dec: 5.02, Size: 0.04}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(got))
	assert.Equal(t, int64(2), st.Candidates)
}

func TestFilter_Circle(t *testing.T) {
	f := NewFilter(Request{RA: 100, Dec: 0, Circle: true, Size: 0.1})

	tests := []struct {
		ra, dec float64
		want    bool
	}{
		{100, 0, true},
		{100.09, 0, true},
		{100.05, 0.05, true},
		{100.08, 0.08, false},
		{100, 0.11, false},
		{280, 0, false}, // antipode
	}
	for _, tt := range tests {
		s := testutil.NewStar(1, tt.ra, tt.dec)
		assert.Equal(t, tt.want, f.Accept(&s), "(%v, %v)", tt.ra, tt.dec)
	}
}

func TestFilter_Box(t *testing.T) {
	f := NewFilter(Request{RA: 100, Dec: 0, Size: 0.2})

	in := testutil.NewStar(1, 100.09, 0.09)
	assert.True(t, f.Accept(&in))

	out := testutil.NewStar(2, 100.11, 0)
	assert.False(t, f.Accept(&out))
}

func TestFilter_Magnitudes(t *testing.T) {
	bright := testutil.NewStar(1, 0, 0)
	bright.PhotGMeanMag = 10
	bright.PhotBPMeanMag = 12

	noBP := testutil.NewStar(2, 0, 0)
	noBP.PhotGMeanMag = 10

	faint := testutil.NewStar(3, 0, 0)
	faint.PhotGMeanMag = 19
	faint.PhotBPMeanMag = 19.5

	t.Run("BPBoundRejectsSentinel", func(t *testing.T) {
		f := NewFilter(Request{Mags: &model.MagLimits{BPMax: ptr(20)}})
		assert.True(t, f.Accept(&bright))
		assert.False(t, f.Accept(&noBP))
		assert.True(t, f.Accept(&faint))
	})

	t.Run("GOnly", func(t *testing.T) {
		f := NewFilter(Request{Mags: &model.MagLimits{GMax: ptr(15)}})
		assert.True(t, f.Accept(&bright))
		assert.True(t, f.Accept(&noBP))
		assert.False(t, f.Accept(&faint))
	})

	t.Run("RPBoundRejectsSentinel", func(t *testing.T) {
		f := NewFilter(Request{Mags: &model.MagLimits{RPMin: ptr(0)}})
		assert.False(t, f.Accept(&bright))
	})

	t.Run("EmptyLimits", func(t *testing.T) {
		f := NewFilter(Request{Mags: &model.MagLimits{}})
		assert.True(t, f.Accept(&noBP))
	})
}

func TestSearch_ProperMotion(t *testing.T) {
	ctx := context.Background()
	// 3600 mas/yr north for 10 years is 10 arcsec.
	mover := testutil.NewStar(1, 50, -0.003)
	mover.PMDec = 3600
	store := blobstore.NewMemoryStore()
	buildZones(t, store, []model.Star{mover})
	e := NewEngine(store)

	req := Request{RA: 50, Dec: 0, Size: 0.002}
	n, _, err := e.Count(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	req.Epoch = ptr(2025.5)
	got, _, err := e.Search(ctx, req, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, -0.003+10.0/3600, got[0].Dec, 1e-9)
}

func TestSearch_ParallelPreservesOrder(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(5)
	stars := rng.StarsInBox(3000, 200, 202, 30, 33)
	store := blobstore.NewMemoryStore()
	buildZones(t, store, stars)
	req := Request{RA: 201, Dec: 31.5, Size: 2.5}

	seq, _, err := NewEngine(store).Search(ctx, req, nil)
	require.NoError(t, err)

	rc := resource.NewController(resource.Config{MaxConcurrentScans: 2})
	par, st, err := NewEngine(store, WithParallelism(8), WithResourceController(rc)).Search(ctx, req, nil)
	require.NoError(t, err)

	assert.Equal(t, ids(seq), ids(par))
	assert.Equal(t, int64(0), rc.ActiveScans())
	assert.Greater(t, st.Zones, int64(10))

	n, _, err := NewEngine(store, WithParallelism(8)).Count(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, len(seq), n)
}

func TestSearch_ReusesBuffer(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	buildZones(t, store, []model.Star{testutil.NewStar(7, 10.2, 5.0)})

	buf := make([]model.Star, 3, 16)
	got, _, err := NewEngine(store).Search(ctx, Request{RA: 10.2, Dec: 5.0, Size: 0.1}, buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Same(t, &buf[0], &got[0])
}

func TestSearch_MissingZone(t *testing.T) {
	store := blobstore.NewMemoryStore()
	_, _, err := NewEngine(store).Search(context.Background(), Request{RA: 10, Dec: 5, Size: 0.1}, nil)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestSearch_InvalidRequest(t *testing.T) {
	_, _, err := NewEngine(blobstore.NewMemoryStore()).Count(context.Background(), Request{RA: math.NaN()})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSearch_Canceled(t *testing.T) {
	store := blobstore.NewMemoryStore()
	buildZones(t, store, testutil.NewRNG(1).StarsInBox(100, 10, 11, 5, 6))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewEngine(store).Search(ctx, Request{RA: 10.5, Dec: 5.5, Size: 1}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
