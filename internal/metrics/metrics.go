// SPDX-License-Identifier: MIT

// Package metrics defines the Prometheus instrumentation shared across
// qbraid-go components.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qbraid",
		Name:      "api_requests_total",
		Help:      "Requests issued to the qBraid platform API by operation and outcome",
	}, []string{"operation", "outcome"})

	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "qbraid",
		Name:      "api_request_duration_seconds",
		Help:      "Latency of qBraid platform API requests",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2.0, 12), // 10ms .. ~41s
	}, []string{"operation"})

	conversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qbraid",
		Name:      "conversions_total",
		Help:      "Successful program conversions by source and target format",
	}, []string{"source", "target"})

	conversionFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qbraid",
		Name:      "conversion_failures_total",
		Help:      "Failed conversion edges by source and target format",
	}, []string{"source", "target"})

	conversionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "qbraid",
		Name:      "conversion_duration_seconds",
		Help:      "Duration of full conversion chains",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4.0, 10),
	})

	jobsSubmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qbraid",
		Name:      "jobs_submitted_total",
		Help:      "Quantum jobs submitted by provider",
	}, []string{"provider"})

	jobPollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qbraid",
		Name:      "job_polls_total",
		Help:      "Job status polls by resulting status",
	}, []string{"status"})

	circuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "qbraid",
		Name:      "circuit_breaker_state",
		Help:      "Circuit breaker state per upstream (0=closed, 1=half-open, 2=open)",
	}, []string{"upstream"})

	cacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qbraid",
		Name:      "cache_hits_total",
		Help:      "Cache hits by cache name",
	}, []string{"cache"})

	cacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qbraid",
		Name:      "cache_misses_total",
		Help:      "Cache misses by cache name",
	}, []string{"cache"})
)

// RecordAPIRequest records one platform API request.
func RecordAPIRequest(operation, outcome string, elapsed time.Duration) {
	apiRequestsTotal.WithLabelValues(operation, outcome).Inc()
	apiRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// RecordConversion records a successful conversion chain.
func RecordConversion(source, target string, elapsed time.Duration) {
	conversionsTotal.WithLabelValues(source, target).Inc()
	conversionDuration.Observe(elapsed.Seconds())
}

// IncConversionFailure records a failed conversion edge.
func IncConversionFailure(source, target string) {
	conversionFailuresTotal.WithLabelValues(source, target).Inc()
}

// IncJobSubmitted records a job submission.
func IncJobSubmitted(provider string) {
	jobsSubmittedTotal.WithLabelValues(provider).Inc()
}

// IncJobPoll records a job status poll.
func IncJobPoll(status string) {
	jobPollsTotal.WithLabelValues(status).Inc()
}

// SetCircuitBreakerState publishes the breaker state for an upstream.
func SetCircuitBreakerState(upstream string, state float64) {
	circuitBreakerState.WithLabelValues(upstream).Set(state)
}

// IncCacheHit records a cache hit.
func IncCacheHit(cache string) {
	cacheHitsTotal.WithLabelValues(cache).Inc()
}

// IncCacheMiss records a cache miss.
func IncCacheMiss(cache string) {
	cacheMissesTotal.WithLabelValues(cache).Inc()
}
