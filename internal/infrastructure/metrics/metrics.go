// Package metrics exposes Prometheus collectors for settlements and the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fundtrail"

// Registry owns every fundtrail collector. Each process builds one and shares it.
type Registry struct {
	registry *prometheus.Registry

	settlements        *prometheus.CounterVec
	confirmationRounds prometheus.Histogram
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		settlements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "settlements_total",
				Help:      "Settlement attempts by outcome.",
			},
			[]string{"outcome"},
		),
		confirmationRounds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "settlement_confirmation_rounds",
				Help:      "Ledger rounds waited before a payment confirmed.",
				Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 50, 100},
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests handled.",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"method", "path"},
		),
	}

	r.registry.MustRegister(
		r.settlements,
		r.confirmationRounds,
		r.httpRequests,
		r.httpDuration,
		collectors.NewGoCollector(),
	)
	return r
}

// RecordOutcome counts one settlement attempt.
func (r *Registry) RecordOutcome(outcome string) {
	r.settlements.WithLabelValues(outcome).Inc()
}

func (r *Registry) ObserveConfirmationRounds(rounds int) {
	r.confirmationRounds.Observe(float64(rounds))
}

// ObserveHTTP records a finished request. path should be the route template, not the raw URL.
func (r *Registry) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer is exposed for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
