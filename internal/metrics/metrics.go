// Package metrics exposes Prometheus metrics for the local web UI.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jobdork"

// Metrics holds the registry and every collector registered on it.
type Metrics struct {
	registry *prometheus.Registry

	Searches      prometheus.Counter
	Moves         *prometheus.CounterVec
	JobsByStatus  *prometheus.GaugeVec
	Requests      *prometheus.CounterVec
	RequestTiming *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Searches: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Searches performed.",
		}),
		Moves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "board_moves_total",
			Help:      "Applications moved between kanban columns.",
		}, []string{"to"}),
		JobsByStatus: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "board_jobs",
			Help:      "Applications per kanban column.",
		}, []string{"status"}),
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served by the UI.",
		}, []string{"method", "code"}),
		RequestTiming: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "UI request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(method string, code int, d time.Duration) {
	m.Requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.RequestTiming.WithLabelValues(method).Observe(d.Seconds())
}

// SetJobCounts replaces the per-status gauges.
func (m *Metrics) SetJobCounts(counts map[string]int) {
	for status, n := range counts {
		m.JobsByStatus.WithLabelValues(status).Set(float64(n))
	}
}
