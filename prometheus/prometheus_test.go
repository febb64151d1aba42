package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/jkim117/gaia2read"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prom.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	out := make(map[string]float64)
	for _, f := range families {
		for _, m := range f.GetMetric() {
			key := f.GetName()
			for _, l := range m.GetLabel() {
				key += "," + l.GetName() + "=" + l.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				out[key] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}

func TestCollector(t *testing.T) {
	reg := prom.NewRegistry()
	c := NewCollector(reg)

	st := gaia2read.QueryStats{Zones: 2, Scanned: 100, Candidates: 10, Accepted: 3}
	c.RecordSearch(st, 3*time.Millisecond, nil)
	c.RecordCount(st, time.Millisecond, nil)
	c.RecordLookup(time.Microsecond, errors.New("boom"))
	c.RecordTranslate(5, time.Microsecond, nil)

	got := gather(t, reg)
	assert.Equal(t, 1.0, got["gaia2read_operations_total,op=search,status=success"])
	assert.Equal(t, 1.0, got["gaia2read_operations_total,op=count,status=success"])
	assert.Equal(t, 1.0, got["gaia2read_operations_total,op=lookup,status=error"])
	assert.Equal(t, 1.0, got["gaia2read_operation_latency_seconds,op=translate,status=success"])
	assert.Equal(t, 4.0, got["gaia2read_zones_scanned_total"])
	assert.Equal(t, 200.0, got["gaia2read_records_scanned_total"])
	assert.Equal(t, 20.0, got["gaia2read_records_candidates_total"])
	assert.Equal(t, 6.0, got["gaia2read_records_returned_total"])
	assert.Equal(t, 5.0, got["gaia2read_identifiers_translated_total,status=success"])
	assert.Equal(t, 1.0, got["gaia2read_search_result_size"])
}

func TestCollector_DoubleRegisterPanics(t *testing.T) {
	reg := prom.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}
