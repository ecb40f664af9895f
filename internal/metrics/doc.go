// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

/*
Package metrics provides Prometheus metrics collection and export.

All collectors are registered on the default registry through promauto and
are served at /metrics by the API router.

# Available Metrics

Recommendation:
  - recommendation_requests_total{view, cache, status}
  - recommendation_duration_seconds{view}
  - recommendation_tier_items{tier}
  - recommendation_tier_skipped_total{tier}
  - catalog_data_quality_exclusions_total

Store:
  - store_operation_duration_seconds{store, operation}
  - store_operation_errors_total{store, operation, error_type}
  - store_retries_total{operation}
  - circuit_breaker_state{name} (0=closed, 1=half-open, 2=open)
  - circuit_breaker_requests_total{name, result}
  - circuit_breaker_state_transitions_total{name, from_state, to_state}
  - cache_hits_total, cache_misses_total{cache_type}
  - cache_invalidations_total{cache_type, source}

Journal and events:
  - wal_pending_entries, wal_appended_total{kind}, wal_replayed_total{result}
  - events_published_total{topic}, events_consumed_total{topic, result}

HTTP:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests, api_rate_limit_hits_total{endpoint}

# Usage

	start := time.Now()
	foods, err := db.GetCatalog(ctx)
	metrics.RecordStoreOp("duckdb", "get_catalog", time.Since(start), err)

The engine reports through RecommendObserver:

	engine.SetObserver(metrics.RecommendObserver{})
*/
package metrics
