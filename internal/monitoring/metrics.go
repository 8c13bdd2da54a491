package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors. Each instance owns
// its registry so tests can build throwaway metrics without collector name
// collisions.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	EvaluationsTotal *prometheus.CounterVec
	SafetyOverrides  *prometheus.CounterVec
	EvaluationTime   prometheus.Histogram

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	RateLimitBlocksTotal prometheus.Counter
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, path, and status code",
		}, []string{"method", "path", "status"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),

		EvaluationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "risk_evaluations_total",
			Help: "Completed risk evaluations by final band",
		}, []string{"band"}),

		SafetyOverrides: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "risk_safety_overrides_total",
			Help: "Safety policy rule activations",
		}, []string{"rule"}),

		EvaluationTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "risk_evaluation_duration_seconds",
			Help:    "Latency of the full evaluation pipeline",
			Buckets: prometheus.DefBuckets,
		}),

		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "response_cache_hits_total",
			Help: "Evaluate responses served from the cache",
		}),

		CacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "response_cache_misses_total",
			Help: "Evaluate requests that missed the cache",
		}),

		RateLimitBlocksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rate_limit_blocks_total",
			Help: "Requests rejected by the per-IP rate limiter",
		}),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.EvaluationsTotal,
		m.SafetyOverrides,
		m.EvaluationTime,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.RateLimitBlocksTotal,
	)

	return m
}

// Handler returns the scrape endpoint for this metrics set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveEvaluation records one completed evaluation.
func (m *Metrics) ObserveEvaluation(band string, lowRiskOverride, biasGuard bool, seconds float64) {
	m.EvaluationsTotal.WithLabelValues(band).Inc()
	m.EvaluationTime.Observe(seconds)
	if lowRiskOverride {
		m.SafetyOverrides.WithLabelValues("medically_low_risk").Inc()
	}
	if biasGuard {
		m.SafetyOverrides.WithLabelValues("bias_guard").Inc()
	}
}

// IncrementCacheHit increments cache hit count
func (m *Metrics) IncrementCacheHit() {
	m.CacheHitsTotal.Inc()
}

// IncrementCacheMiss increments cache miss count
func (m *Metrics) IncrementCacheMiss() {
	m.CacheMissesTotal.Inc()
}

// IncrementRateLimitBlock increments the rate limiter rejection count
func (m *Metrics) IncrementRateLimitBlock() {
	m.RateLimitBlocksTotal.Inc()
}
