package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by rendering variant
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edge_cache_hits_total",
			Help: "Total number of edge cache hits",
		},
		[]string{"dynamic_render"}, // "true" / "false"
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edge_cache_misses_total",
			Help: "Total number of edge cache misses",
		},
	)

	// CacheBypass tracks requests that skipped the cache by method
	CacheBypass = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edge_cache_bypass_total",
			Help: "Total number of requests bypassing the cache",
		},
		[]string{"method"},
	)

	// CacheInvalidations tracks keys evicted by prefix invalidation
	CacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edge_cache_invalidated_keys_total",
			Help: "Total number of cache keys evicted by prefix invalidation",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edge_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "invalidate"
	)
)
