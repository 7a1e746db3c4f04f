package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/bindkit/binder"
)

// Metrics owns a prometheus registry populated with collectors for the
// binding pipeline: request outcomes, latency, validation failure kinds
// and extraction cache activity.
type Metrics struct {
	registry *prometheus.Registry

	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	outcomes   *prometheus.CounterVec
	validation *prometheus.CounterVec
	parses     *prometheus.CounterVec
	hits       prometheus.Counter
}

// Option configures a Metrics instance.
type Option func(*settings)

type settings struct {
	registry  *prometheus.Registry
	namespace string
	buckets   []float64
}

// WithRegistry collects into an existing registry instead of a private
// one.
func WithRegistry(r *prometheus.Registry) Option {
	return func(s *settings) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithNamespace overrides the metric name prefix.
func WithNamespace(ns string) Option {
	return func(s *settings) {
		if ns != "" {
			s.namespace = ns
		}
	}
}

// WithDurationBuckets overrides the latency histogram buckets.
func WithDurationBuckets(buckets []float64) Option {
	return func(s *settings) {
		if len(buckets) > 0 {
			s.buckets = buckets
		}
	}
}

// New builds a Metrics instance and registers its collectors.
func New(opts ...Option) *Metrics {
	cfg := settings{
		registry:  prometheus.NewRegistry(),
		namespace: "bindkit",
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Metrics{registry: cfg.registry}
	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.namespace,
		Name:      "requests_total",
		Help:      "Requests served, by endpoint and HTTP status code.",
	}, []string{"endpoint", "code"})
	m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.namespace,
		Name:      "request_duration_seconds",
		Help:      "Request latency, by endpoint.",
		Buckets:   cfg.buckets,
	}, []string{"endpoint"})
	m.outcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.namespace,
		Name:      "chain_outcomes_total",
		Help:      "Chain executions, by endpoint and final state.",
	}, []string{"endpoint", "state"})
	m.validation = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.namespace,
		Name:      "validation_failures_total",
		Help:      "Validation failures, by endpoint and failure kind.",
	}, []string{"endpoint", "kind"})
	m.parses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.namespace,
		Name:      "cache_parses_total",
		Help:      "Extraction cache parses, by request component.",
	}, []string{"source"})
	m.hits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: cfg.namespace,
		Name:      "cache_hits_total",
		Help:      "Extraction cache loads served from a memoized entry.",
	})

	cfg.registry.MustRegister(m.requests, m.duration, m.outcomes, m.validation, m.parses, m.hits)
	return m
}

// Registry exposes the underlying prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format,
// typically mounted at /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCache folds one request's extraction cache counters into the
// collectors. Wire it with bindkit.WithCacheStats:
//
//	ep, err := bindkit.NewEndpoint(handler, bindkit.WithCacheStats(m.ObserveCache))
func (m *Metrics) ObserveCache(s binder.Stats) {
	m.parses.WithLabelValues("path").Add(float64(s.PathParses))
	m.parses.WithLabelValues("header").Add(float64(s.HeaderParses))
	m.parses.WithLabelValues("cookie").Add(float64(s.CookieParses))
	m.parses.WithLabelValues("query").Add(float64(s.QueryParses))
	m.parses.WithLabelValues("body_read").Add(float64(s.BodyReads))
	m.parses.WithLabelValues("body_decode").Add(float64(s.BodyDecodes))
	m.hits.Add(float64(s.Hits))
}
