package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Assist service metrics for production monitoring
var (
	// Request metrics
	AssistRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gorillalink_assist_requests_total",
			Help: "Total number of assist requests",
		},
		[]string{"feature", "status"},
	)

	AssistRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gorillalink_assist_request_duration_seconds",
			Help:    "Assist request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
		[]string{"feature"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gorillalink_assist_cache_hits_total",
			Help: "Total cache hits per scope",
		},
		[]string{"scope"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gorillalink_assist_cache_misses_total",
			Help: "Total cache misses per scope",
		},
		[]string{"scope"},
	)

	CacheErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gorillalink_assist_cache_errors_total",
			Help: "Cache backend errors, treated as misses",
		},
		[]string{"scope", "op"},
	)

	// Rate limit metrics
	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gorillalink_assist_rate_limit_rejections_total",
			Help: "Requests rejected by the sliding-window limiter",
		},
	)

	// LLM metrics
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gorillalink_assist_llm_requests_total",
			Help: "Total number of LLM API requests",
		},
		[]string{"status"}, // success, transient_failure, permanent_failure
	)

	LLMRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gorillalink_assist_llm_request_duration_seconds",
			Help:    "LLM request duration in seconds, including retries",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~1min
		},
	)

	// Fallback metrics
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gorillalink_assist_fallbacks_total",
			Help: "Deterministic fallbacks served instead of LLM output",
		},
		[]string{"feature", "reason"}, // reason: unconfigured, exhausted
	)
)
