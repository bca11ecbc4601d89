// Package metrics exposes Prometheus collectors for parse and session activity.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry so tests can build as many as they like.
type Recorder struct {
	registry *prometheus.Registry

	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	rows       prometheus.Histogram
	pastes     *prometheus.CounterVec
	sessions   prometheus.Gauge
}

// New creates a Recorder with Go runtime and process collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sheetview_dispatch_total",
			Help: "File dispatches by format and outcome",
		}, []string{"format", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sheetview_dispatch_duration_seconds",
			Help:    "Time spent parsing or converting an uploaded file",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		rows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sheetview_table_rows",
			Help:    "Row count of accepted tables",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		pastes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sheetview_paste_submit_total",
			Help: "Paste submissions by outcome",
		}, []string{"outcome"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sheetview_sessions",
			Help: "Live in-memory sessions",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.dispatches, r.duration, r.rows, r.pastes, r.sessions,
	)
	return r
}

// ObserveDispatch records one file dispatch. rows is ignored unless outcome is "ok".
func (r *Recorder) ObserveDispatch(format, outcome string, elapsed time.Duration, rows int) {
	if r == nil {
		return
	}
	r.dispatches.WithLabelValues(format, outcome).Inc()
	r.duration.WithLabelValues(format).Observe(elapsed.Seconds())
	if outcome == "ok" {
		r.rows.Observe(float64(rows))
	}
}

// ObservePaste records one paste submission.
func (r *Recorder) ObservePaste(outcome string, rows int) {
	if r == nil {
		return
	}
	r.pastes.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		r.rows.Observe(float64(rows))
	}
}

// SetSessions records the live session count.
func (r *Recorder) SetSessions(n int) {
	if r == nil {
		return
	}
	r.sessions.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
