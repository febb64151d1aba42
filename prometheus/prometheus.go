// Package prometheus exports catalog operation metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	cat, _ := gaia2read.OpenLocal(root,
//		gaia2read.WithMetricsCollector(gaiaprom.NewCollector(reg)))
package prometheus

import (
	"time"

	"github.com/jkim117/gaia2read"
	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "gaia2read"

// Collector implements gaia2read.MetricsCollector with Prometheus
// histograms and counters.
type Collector struct {
	opLatency   *prom.HistogramVec
	ops         *prom.CounterVec
	zones       prom.Counter
	scanned     prom.Counter
	candidates  prom.Counter
	returned    prom.Counter
	translated  *prom.CounterVec
	resultSizes prom.Histogram
}

var _ gaia2read.MetricsCollector = (*Collector)(nil)

// NewCollector creates a Collector and registers it with reg. A nil reg
// registers with the default registry.
func NewCollector(reg prom.Registerer) *Collector {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of catalog operations",
			Buckets:   prom.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"op", "status"}),
		ops: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Catalog operations by type and outcome",
		}, []string{"op", "status"}),
		zones: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "zones_scanned_total",
			Help:      "Zone files opened by positional queries",
		}),
		scanned: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "records_scanned_total",
			Help:      "Records read inside the RA runs of positional queries",
		}),
		candidates: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "records_candidates_total",
			Help:      "Records that passed the declination band and reached the filter",
		}),
		returned: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "records_returned_total",
			Help:      "Records accepted by positional queries",
		}),
		translated: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "identifiers_translated_total",
			Help:      "Identifiers passed to translation calls",
		}, []string{"status"}),
		resultSizes: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "search_result_size",
			Help:      "Number of stars returned per search",
			Buckets:   prom.ExponentialBuckets(1, 4, 10),
		}),
	}

	reg.MustRegister(c.opLatency, c.ops, c.zones, c.scanned, c.candidates, c.returned, c.translated, c.resultSizes)
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues(op, s).Observe(d.Seconds())
	c.ops.WithLabelValues(op, s).Inc()
}

func (c *Collector) addStats(st gaia2read.QueryStats) {
	c.zones.Add(float64(st.Zones))
	c.scanned.Add(float64(st.Scanned))
	c.candidates.Add(float64(st.Candidates))
	c.returned.Add(float64(st.Accepted))
}

// RecordCount implements gaia2read.MetricsCollector.
func (c *Collector) RecordCount(st gaia2read.QueryStats, d time.Duration, err error) {
	c.observe("count", d, err)
	c.addStats(st)
}

// RecordSearch implements gaia2read.MetricsCollector.
func (c *Collector) RecordSearch(st gaia2read.QueryStats, d time.Duration, err error) {
	c.observe("search", d, err)
	c.addStats(st)
	if err == nil {
		c.resultSizes.Observe(float64(st.Accepted))
	}
}

// RecordLookup implements gaia2read.MetricsCollector.
func (c *Collector) RecordLookup(d time.Duration, err error) {
	c.observe("lookup", d, err)
}

// RecordTranslate implements gaia2read.MetricsCollector.
func (c *Collector) RecordTranslate(count int, d time.Duration, err error) {
	c.observe("translate", d, err)
	c.translated.WithLabelValues(status(err)).Add(float64(count))
}
