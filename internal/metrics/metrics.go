// Package metrics exposes Prometheus counters for flattening runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat"
)

// Metrics holds the run collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	runs     *prometheus.CounterVec
	steps    *prometheus.CounterVec
	blocks   prometheus.Counter
	rows     prometheus.Counter
	duration prometheus.Histogram
}

// New creates and registers the run collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sheetflat",
			Name:      "runs_total",
			Help:      "Flattening runs by outcome.",
		}, []string{"outcome"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sheetflat",
			Name:      "steps_total",
			Help:      "Trace steps by status.",
		}, []string{"status"}),
		blocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sheetflat",
			Name:      "blocks_total",
			Help:      "Data blocks merged into results.",
		}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sheetflat",
			Name:      "rows_total",
			Help:      "Rows emitted in result tables.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sheetflat",
			Name:      "run_duration_seconds",
			Help:      "Wall time of flattening runs.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(m.runs, m.steps, m.blocks, m.rows, m.duration)
	return m
}

// Observe records one finished run.
func (m *Metrics) Observe(res *sheetflat.Result) {
	outcome := "success"
	switch {
	case res.Partial:
		outcome = "partial"
	case res.Failed():
		outcome = "error"
	}
	m.runs.WithLabelValues(outcome).Inc()

	for _, s := range res.Steps {
		m.steps.WithLabelValues(string(s.Status)).Inc()
	}
	m.blocks.Add(float64(len(res.Blocks)))
	m.rows.Add(float64(len(res.Table.Rows)))
	m.duration.Observe(res.Duration.Seconds())
}

// Handler serves the collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
