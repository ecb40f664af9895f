// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/anuragksng/foodrec/internal/recommend"
)

// Prometheus instrumentation for:
// - Recommendation pipeline tiers and fallbacks
// - Store operations (DuckDB, retries, circuit breaker)
// - Snapshot cache efficiency
// - Write-ahead journal and change events
// - API endpoint latency and throughput

var (
	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"view", "cache", "status"}, // cache: "hit", "miss"; status: "ok", "error"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"view"},
	)

	RecommendationTierItems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_tier_items",
			Help:    "Number of items each tier contributed to a result",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 10, 15},
		},
		[]string{"tier"},
	)

	RecommendationTierSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_tier_skipped_total",
			Help: "Total number of tiers skipped because a store read failed",
		},
		[]string{"tier"},
	)

	DataQualityExclusions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_data_quality_exclusions_total",
			Help: "Total number of catalog records excluded for data quality",
		},
	)

	// Store Metrics
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"store", "operation"},
	)

	StoreOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operation_errors_total",
			Help: "Total number of store operation errors",
		},
		[]string{"store", "operation", "error_type"},
	)

	StoreRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_retries_total",
			Help: "Total number of store operation retries",
		},
		[]string{"operation"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "catalog", "ratings", "weather_foods"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Total number of cache invalidations",
		},
		[]string{"cache_type", "source"}, // source: "write", "event"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Write-Ahead Journal Metrics
	WALPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wal_pending_entries",
			Help: "Current number of journal entries awaiting confirmation",
		},
	)

	WALAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wal_appended_total",
			Help: "Total number of journal entries written",
		},
		[]string{"kind"},
	)

	WALReplayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wal_replayed_total",
			Help: "Total number of journal entries replayed",
		},
		[]string{"result"}, // "applied", "retry", "dropped"
	)

	// Change Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of change events published",
		},
		[]string{"topic"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Total number of change events consumed",
		},
		[]string{"topic", "result"}, // "ok", "invalid"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// ErrorType maps an error onto a small fixed label set.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, recommend.ErrUserNotFound), errors.Is(err, recommend.ErrFoodNotFound):
		return "not_found"
	case errors.Is(err, recommend.ErrStoreUnavailable):
		return "unavailable"
	case recommend.IsDataQuality(err):
		return "data_quality"
	default:
		return "other"
	}
}

// RecordStoreOp records one store operation.
func RecordStoreOp(store, operation string, duration time.Duration, err error) {
	StoreOpDuration.WithLabelValues(store, operation).Observe(duration.Seconds())
	if err != nil {
		StoreOpErrors.WithLabelValues(store, operation, ErrorType(err)).Inc()
	}
}

// RecordStoreRetry records a retried store operation.
func RecordStoreRetry(operation string) {
	StoreRetries.WithLabelValues(operation).Inc()
}

// RecordCacheLookup records a snapshot cache hit or miss.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordCacheInvalidation records a snapshot invalidation.
func RecordCacheInvalidation(cacheType, source string) {
	CacheInvalidations.WithLabelValues(cacheType, source).Inc()
}

// RecordBreakerResult records a request outcome through a circuit breaker.
func RecordBreakerResult(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordBreakerTransition records a state change and updates the state gauge.
func RecordBreakerTransition(name, from, to string, toValue float64) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(toValue)
}

// RecordWALAppend records a journal write.
func RecordWALAppend(kind string) {
	WALAppended.WithLabelValues(kind).Inc()
}

// RecordWALReplay records a replay outcome.
func RecordWALReplay(result string) {
	WALReplayed.WithLabelValues(result).Inc()
}

// SetWALPending sets the pending entry gauge.
func SetWALPending(n int) {
	WALPending.Set(float64(n))
}

// RecordEventPublished records a published change event.
func RecordEventPublished(topic string) {
	EventsPublished.WithLabelValues(topic).Inc()
}

// RecordEventConsumed records a consumed change event.
func RecordEventConsumed(topic string, ok bool) {
	result := "ok"
	if !ok {
		result = "invalid"
	}
	EventsConsumed.WithLabelValues(topic, result).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rejected request.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// SetAppInfo publishes version information.
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}

// RecommendObserver exports engine pipeline events to Prometheus.
type RecommendObserver struct{}

// ObserveRequest implements recommend.Observer.
func (RecommendObserver) ObserveRequest(view string, cacheHit bool, err error, d time.Duration) {
	cache := "miss"
	if cacheHit {
		cache = "hit"
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	RecommendationRequests.WithLabelValues(view, cache, status).Inc()
	RecommendationDuration.WithLabelValues(view).Observe(d.Seconds())
}

// ObserveTier implements recommend.Observer.
func (RecommendObserver) ObserveTier(tier recommend.Tier, items int) {
	RecommendationTierItems.WithLabelValues(string(tier)).Observe(float64(items))
}

// ObserveTierSkipped implements recommend.Observer.
func (RecommendObserver) ObserveTierSkipped(tier recommend.Tier) {
	RecommendationTierSkipped.WithLabelValues(string(tier)).Inc()
}

// ObserveExcluded implements recommend.Observer.
func (RecommendObserver) ObserveExcluded(n int) {
	DataQualityExclusions.Add(float64(n))
}

var _ recommend.Observer = RecommendObserver{}

// StatusLabel formats an HTTP status code as a label value.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}
