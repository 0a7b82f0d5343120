package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	AuthResults        *prometheus.CounterVec
	KeyFetches         *prometheus.CounterVec
	KeyCacheAccess     *prometheus.CounterVec
	ModerationVerdicts *prometheus.CounterVec
	TranslateRequests  *prometheus.CounterVec
	TranslateLatency   prometheus.Histogram
	UpstreamLatency    *prometheus.HistogramVec
	UpstreamErrors     *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// NewMetrics creates the Prometheus metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AuthResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transgate_auth_results_total",
				Help: "Token validation outcomes by terminal state.",
			},
			[]string{"result"},
		),
		KeyFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transgate_signing_key_fetches_total",
				Help: "Outbound signing key discovery attempts.",
			},
			[]string{"result"},
		),
		KeyCacheAccess: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transgate_signing_key_cache_total",
				Help: "Signing key cache lookups by tier and outcome.",
			},
			[]string{"tier", "outcome"},
		),
		ModerationVerdicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transgate_moderation_verdicts_total",
				Help: "Moderation passes by stage and result.",
			},
			[]string{"stage", "result"},
		),
		TranslateRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transgate_translate_requests_total",
				Help: "Translate operations by result.",
			},
			[]string{"result"},
		),
		TranslateLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "transgate_translate_latency_seconds",
				Help:    "End-to-end latency of translate operations.",
				Buckets: prometheus.DefBuckets,
			},
		),
		UpstreamLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transgate_upstream_latency_seconds",
				Help:    "Latency of calls to external services.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"upstream"},
		),
		UpstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transgate_upstream_errors_total",
				Help: "Failed calls to external services.",
			},
			[]string{"upstream"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transgate_http_requests_total",
				Help: "Inbound HTTP requests by method, route and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transgate_http_request_duration_seconds",
				Help:    "Latency of inbound HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// RecordTranslation records metrics for a translate operation.
func (m *Metrics) RecordTranslation(result string, duration time.Duration) {
	m.TranslateRequests.WithLabelValues(result).Inc()
	m.TranslateLatency.Observe(duration.Seconds())
}

// RecordUpstreamCall records latency and, on failure, an error for an upstream.
func (m *Metrics) RecordUpstreamCall(upstream string, duration time.Duration, err error) {
	m.UpstreamLatency.WithLabelValues(upstream).Observe(duration.Seconds())
	if err != nil {
		m.UpstreamErrors.WithLabelValues(upstream).Inc()
	}
}

//Personal.AI order the ending
