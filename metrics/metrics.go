// Package metrics defines the Prometheus collectors for upstream API calls
// and search sessions, and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the server. A nil *Metrics is
// valid everywhere and records nothing, so instrumentation points never
// need to guard against a disabled metrics endpoint.
type Metrics struct {
	registry *prometheus.Registry

	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec
	SearchSessionsTotal     *prometheus.CounterVec
	SessionRecords          *prometheus.HistogramVec
	SessionPollRounds       *prometheus.HistogramVec
}

// New creates and registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		UpstreamRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intelx_upstream_requests_total",
				Help: "Total upstream API requests by endpoint and status code.",
			},
			[]string{"endpoint", "status"},
		),
		UpstreamRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intelx_upstream_request_duration_seconds",
				Help:    "Upstream API request latency in seconds.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
		SearchSessionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intelx_search_sessions_total",
				Help: "Completed search sessions by family and outcome (complete, expired, budget, error).",
			},
			[]string{"family", "outcome"},
		),
		SessionRecords: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intelx_session_records",
				Help:    "Records accumulated per finished search session.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
			},
			[]string{"family"},
		),
		SessionPollRounds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intelx_session_poll_rounds",
				Help:    "Poll rounds per finished search session.",
				Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
			},
			[]string{"family"},
		),
	}

	m.registry.MustRegister(
		m.UpstreamRequestsTotal,
		m.UpstreamRequestDuration,
		m.SearchSessionsTotal,
		m.SessionRecords,
		m.SessionPollRounds,
	)
	return m
}

// ObserveUpstream records one upstream request. Safe on a nil receiver.
func (m *Metrics) ObserveUpstream(endpoint, status string, seconds float64) {
	if m == nil {
		return
	}
	m.UpstreamRequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}

// ObserveSession records one finished search session. Safe on a nil receiver.
func (m *Metrics) ObserveSession(family, outcome string, records, rounds int) {
	if m == nil {
		return
	}
	m.SearchSessionsTotal.WithLabelValues(family, outcome).Inc()
	m.SessionRecords.WithLabelValues(family).Observe(float64(records))
	m.SessionPollRounds.WithLabelValues(family).Observe(float64(rounds))
}

// Handler returns the scrape handler for this metrics set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr and blocks.
func (m *Metrics) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return http.ListenAndServe(addr, mux)
}
