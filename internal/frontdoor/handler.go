// Package frontdoor implements the HTTP surface of the edge pipeline: the
// pre-cache classification phase, the cache gate and the cache-miss
// resolution phase, wired in the order the cache-partitioning contract
// requires (signal header fully set before any cache key is computed).
package frontdoor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edgeward/renderedge/pkg/cache"
	"github.com/edgeward/renderedge/pkg/classifier"
	"github.com/edgeward/renderedge/pkg/resolver"
)

// Response headers exposed for debugging and log enrichment.
const (
	cacheStatusHeader = "X-Cache"          // HIT / MISS / BYPASS
	sourceHeader      = "X-Resolve-Source" // prerender / asset / index_fallback
)

// Prometheus metrics for front-door requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edge_requests_total",
		Help: "Total front door requests by method, status and cache outcome",
	}, []string{"method", "status", "cache"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "edge_request_duration_seconds",
		Help:    "Front door request duration in seconds by cache outcome",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"cache"})
)

// ResponseCache is the slice of the cache manager the handler needs.
// *cache.Manager satisfies it; tests plug in an in-memory fake.
type ResponseCache interface {
	Get(ctx context.Context, key cache.Key) (*cache.Entry, error)
	Set(ctx context.Context, key cache.Key, entry *cache.Entry) error
}

// Invalidator evicts cached variants under a path prefix on deployment
// events. *cache.Manager satisfies it.
type Invalidator interface {
	InvalidatePrefix(ctx context.Context, pathPrefix string) (int, error)
}

// Handler serves site traffic through the two pipeline stages.
type Handler struct {
	classifier *classifier.Classifier
	cache      ResponseCache
	resolver   *resolver.Resolver
	cacheTTL   time.Duration
	logger     zerolog.Logger
}

// Config holds the handler configuration.
type Config struct {
	Classifier *classifier.Classifier
	Cache      ResponseCache
	Resolver   *resolver.Resolver

	// CacheTTL is the bounded freshness lifetime for stored responses.
	CacheTTL time.Duration

	Logger zerolog.Logger
}

// NewHandler creates the front-door handler.
func NewHandler(cfg Config) (*Handler, error) {
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Handler{
		classifier: cfg.Classifier,
		cache:      cfg.Cache,
		resolver:   cfg.Resolver,
		cacheTTL:   ttl,
		logger:     cfg.Logger.With().Str("component", "frontdoor").Logger(),
	}, nil
}

// ServeHTTP runs the full pipeline for one site request: classification,
// cache lookup, and on a miss, origin resolution plus cache store.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	// The signal header is a private contract; whatever the client sent is
	// discarded before classification runs.
	classifier.StripSignal(r)
	dynamic := h.classifier.Apply(r)

	key := cache.Key{
		Path:          r.URL.Path,
		DynamicRender: dynamic,
		Encoding:      cache.NegotiateEncoding(r.Header.Get("Accept-Encoding")),
	}

	cacheable := cache.CacheableMethod(r.Method)
	cacheStatus := "BYPASS"

	if cacheable {
		entry, err := h.cache.Get(ctx, key)
		if err == nil {
			h.serveEntry(w, r, entry, "HIT")
			h.observe(r, entry.StatusCode, "HIT", start)
			return
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			// A broken cache degrades to origin resolution; the request
			// still gets served.
			h.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Cache get failed")
		}
		cacheStatus = "MISS"
	} else {
		cache.CacheBypass.WithLabelValues(r.Method).Inc()
	}

	res, err := h.resolver.Resolve(ctx, r.URL.Path, dynamic)
	if err != nil {
		status := h.serveError(w, err)
		h.observe(r, status, cacheStatus, start)
		return
	}

	entry := cache.NewEntry(res.Object.Body, res.Object.ContentType, res.Status, string(res.Source), h.cacheTTL)

	if cacheable {
		if err := h.cache.Set(ctx, key, entry); err != nil {
			h.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Cache set failed")
		}
	}

	h.serveEntry(w, r, entry, cacheStatus)
	h.observe(r, entry.StatusCode, cacheStatus, start)
}

// serveEntry writes a cached or freshly resolved response. HEAD requests
// get headers only.
func (h *Handler) serveEntry(w http.ResponseWriter, r *http.Request, entry *cache.Entry, cacheStatus string) {
	w.Header().Set("Content-Type", entry.ContentType)
	w.Header().Set(cacheStatusHeader, cacheStatus)
	if entry.Source != "" {
		w.Header().Set(sourceHeader, entry.Source)
	}
	// The cache partitions on User-Agent-derived state and encoding; any
	// shared cache further downstream must partition the same way.
	w.Header().Add("Vary", "User-Agent")
	w.Header().Add("Vary", "Accept-Encoding")
	w.WriteHeader(entry.StatusCode)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(entry.Data); err != nil {
		h.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("Response write failed")
	}
}

// serveError maps a resolution failure to a client response without leaking
// internal detail, and returns the status it wrote.
func (h *Handler) serveError(w http.ResponseWriter, err error) int {
	var rerr *resolver.ResolveError
	if errors.As(err, &rerr) {
		h.logger.Error().
			Str("path", rerr.Path).
			Bool("dynamic_render", rerr.DynamicRender).
			Str("kind", string(rerr.Kind)).
			Err(rerr.Err).
			Msg("Resolution failed")
	}

	if resolver.IsNotFound(err) {
		http.Error(w, "not found", http.StatusNotFound)
		return http.StatusNotFound
	}

	http.Error(w, "upstream error", http.StatusBadGateway)
	return http.StatusBadGateway
}

func (h *Handler) observe(r *http.Request, status int, cacheStatus string, start time.Time) {
	requestsTotal.WithLabelValues(r.Method, fmt.Sprintf("%d", status), cacheStatus).Inc()
	requestDuration.WithLabelValues(cacheStatus).Observe(time.Since(start).Seconds())
}

// NewRouter assembles the front door: middleware chain, admin surface and
// the catch-all site handler.
func NewRouter(h *Handler, inv Invalidator, logger zerolog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/admin/invalidate", handleInvalidate(inv, logger))

	r.Handle("/*", h)

	return r
}

// handleInvalidate is the deployment-event hook: it evicts every cached
// variant under a path prefix.
func handleInvalidate(inv Invalidator, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "/"
		}

		evicted, err := inv.InvalidatePrefix(r.Context(), prefix)
		if err != nil {
			logger.Error().Err(err).Str("prefix", prefix).Msg("Invalidation failed")
			http.Error(w, "invalidation failed", http.StatusInternalServerError)
			return
		}

		logger.Info().Str("prefix", prefix).Int("evicted", evicted).Msg("Cache invalidated")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"evicted": evicted})
	}
}
