// Package metrics provides the central Prometheus metrics reference for the
// edge pipeline. All metrics are defined in their respective packages
// (classifier, cache, resolver, frontdoor) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the edge pipeline.
// All metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Classifier Metrics (pkg/classifier):
//   - edge_classifications_total{dynamic_render} (Counter): Classified requests by decision
//
// Cache Metrics (pkg/cache):
//   - edge_cache_hits_total{dynamic_render} (Counter): Cache hits by rendering variant
//   - edge_cache_misses_total (Counter): Cache misses
//   - edge_cache_bypass_total{method} (Counter): Requests bypassing the cache by method
//   - edge_cache_invalidated_keys_total (Counter): Keys evicted by prefix invalidation
//   - edge_cache_errors_total{operation} (Counter): Cache operation errors
//
// Resolver Metrics (pkg/resolver):
//   - edge_resolutions_total{source} (Counter): Successful resolutions by source
//   - edge_resolve_failures_total{kind} (Counter): Failed resolutions by kind
//   - edge_store_lookup_retries_total (Counter): Store lookups retried once after a transient failure
//   - edge_store_lookup_duration_seconds (Histogram): Store lookup duration
//
// Front Door Metrics (internal/frontdoor):
//   - edge_requests_total{method, status, cache} (Counter): Requests by method, status and cache outcome
//   - edge_request_duration_seconds{cache} (Histogram): Request duration by cache outcome
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(edge_cache_hits_total[5m])) /
//   (sum(rate(edge_cache_hits_total[5m])) + sum(rate(edge_cache_misses_total[5m])))
//
//   # Share of bot traffic
//   rate(edge_classifications_total{dynamic_render="true"}[5m]) /
//   sum(rate(edge_classifications_total[5m]))
//
//   # SPA fallback rate
//   rate(edge_resolutions_total{source="index_fallback"}[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(edge_request_duration_seconds_bucket[5m]))
