// Package metrics exposes Prometheus collectors for the HTTP API and the
// reminder worker.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	CacheHits          *prometheus.CounterVec
	CacheMisses        *prometheus.CounterVec
	RateLimitedTotal   prometheus.Counter
	ReminderBatches    prometheus.Counter
	RemindersPublished prometheus.Counter
}

// New builds a self-contained registry so tests can create isolated
// instances without collector name collisions.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bilancio_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bilancio_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bilancio_cache_hits_total",
			Help: "Cache hits by cache name.",
		}, []string{"cache"}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bilancio_cache_misses_total",
			Help: "Cache misses by cache name.",
		}, []string{"cache"}),
		RateLimitedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "bilancio_rate_limited_requests_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		ReminderBatches: factory.NewCounter(prometheus.CounterOpts{
			Name: "bilancio_reminder_batches_total",
			Help: "Reminder batches published to the dispatcher.",
		}),
		RemindersPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "bilancio_reminders_published_total",
			Help: "Individual reminders published to the dispatcher.",
		}),
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
