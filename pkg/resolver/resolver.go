// Package resolver maps a request path and rendering signal to the concrete
// stored object that should answer a cache miss.
//
// Resolution walks an ordered candidate table: the prerendered counterpart
// of the route (only when the rendering signal is set), then the literal
// static asset, then the root index document as SPA fallback. The fallback
// only applies to paths whose last segment carries no file extension; a
// missing asset stays a not-found failure so broken asset links do not
// silently serve the application shell.
package resolver

import (
	"context"
	"errors"
	"fmt"
	gopath "path"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/edgeward/renderedge/pkg/store"
)

// Prometheus metrics for resolver operations.
var (
	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edge_resolutions_total",
		Help: "Total successful resolutions by source",
	}, []string{"source"})

	resolveFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edge_resolve_failures_total",
		Help: "Total failed resolutions by failure kind",
	}, []string{"kind"})

	lookupRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edge_store_lookup_retries_total",
		Help: "Total store lookups retried after a transient failure",
	})

	lookupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "edge_store_lookup_duration_seconds",
		Help:    "Store lookup duration in seconds",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	})
)

// Source identifies which candidate answered a resolution.
type Source string

const (
	// SourcePrerender is a prerendered document for an automated client.
	SourcePrerender Source = "prerender"

	// SourceAsset is a literal static asset at the request path.
	SourceAsset Source = "asset"

	// SourceIndexFallback is the root index document serving a client-side
	// route.
	SourceIndexFallback Source = "index_fallback"
)

const (
	// DefaultPrerenderPrefix is where prerendered documents live in the
	// store, mirroring the route hierarchy underneath.
	DefaultPrerenderPrefix = "/prerendered"

	// DefaultLookupTimeout bounds a single store lookup.
	DefaultLookupTimeout = 3 * time.Second

	// indexDocument is the SPA root document.
	indexDocument = "/index.html"
)

// Resolution is the outcome of a successful resolve: the object to serve,
// where it came from and the HTTP status to serve it with. The index
// fallback deliberately carries a success status (not a redirect) so the
// browser's location bar keeps the deep-link route.
type Resolution struct {
	Object *store.Object
	Source Source
	Status int
}

// Config holds the resolver configuration.
type Config struct {
	// Store is the lookup capability for published objects.
	Store store.Store

	// PrerenderPrefix is the store path prefix for prerendered documents.
	// Defaults to DefaultPrerenderPrefix.
	PrerenderPrefix string

	// LookupTimeout bounds each store lookup. Defaults to
	// DefaultLookupTimeout.
	LookupTimeout time.Duration

	// Logger is the component logger.
	Logger zerolog.Logger
}

// Resolver resolves request paths against the store. It is stateless and
// safe for concurrent use; resolution depends only on the inputs and the
// store's current contents.
type Resolver struct {
	store           store.Store
	prerenderPrefix string
	lookupTimeout   time.Duration
	logger          zerolog.Logger
}

// New creates a resolver.
func New(cfg Config) (*Resolver, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	prefix := cfg.PrerenderPrefix
	if prefix == "" {
		prefix = DefaultPrerenderPrefix
	}
	prefix = "/" + strings.Trim(prefix, "/")

	timeout := cfg.LookupTimeout
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}

	return &Resolver{
		store:           cfg.Store,
		prerenderPrefix: prefix,
		lookupTimeout:   timeout,
		logger:          cfg.Logger.With().Str("component", "resolver").Logger(),
	}, nil
}

// candidate is one row of the ordered resolution table.
type candidate struct {
	source     Source
	objectPath string
}

// candidates builds the ordered resolution table for a request. The order
// is the tie-break policy: prerendered document, literal asset, index
// fallback.
func (r *Resolver) candidates(path string, dynamicRender bool) []candidate {
	steps := make([]candidate, 0, 3)

	if dynamicRender {
		steps = append(steps, candidate{
			source:     SourcePrerender,
			objectPath: r.prerenderPath(path),
		})
	}

	steps = append(steps, candidate{
		source:     SourceAsset,
		objectPath: assetPath(path),
	})

	if !hasFileExtension(path) {
		steps = append(steps, candidate{
			source:     SourceIndexFallback,
			objectPath: indexDocument,
		})
	}

	return steps
}

// Resolve maps (path, dynamicRender) to the object that should answer the
// request. It performs at most one store lookup per candidate, each bounded
// by the lookup timeout and retried once on transient failure.
func (r *Resolver) Resolve(ctx context.Context, path string, dynamicRender bool) (*Resolution, error) {
	path = normalizePath(path)

	for _, cand := range r.candidates(path, dynamicRender) {
		obj, err := r.lookup(ctx, cand.objectPath)
		if err == nil {
			r.logger.Debug().
				Str("path", path).
				Bool("dynamic_render", dynamicRender).
				Str("source", string(cand.source)).
				Str("object_path", cand.objectPath).
				Msg("Resolved request")
			resolutionsTotal.WithLabelValues(string(cand.source)).Inc()

			return &Resolution{
				Object: obj,
				Source: cand.source,
				Status: 200,
			}, nil
		}

		if errors.Is(err, store.ErrNotFound) {
			continue
		}

		// Transient failure already retried once; surface it rather than
		// falling through to the index document, so an unhealthy store is
		// visible instead of masquerading as a client-side route.
		r.logger.Error().
			Err(err).
			Str("path", path).
			Bool("dynamic_render", dynamicRender).
			Str("object_path", cand.objectPath).
			Msg("Store lookup failed")
		resolveFailuresTotal.WithLabelValues(string(FailureUpstream)).Inc()

		return nil, &ResolveError{
			Path:          path,
			DynamicRender: dynamicRender,
			Kind:          FailureUpstream,
			Err:           err,
		}
	}

	resolveFailuresTotal.WithLabelValues(string(FailureNotFound)).Inc()
	return nil, &ResolveError{
		Path:          path,
		DynamicRender: dynamicRender,
		Kind:          FailureNotFound,
		Err:           ErrNotFound,
	}
}

// lookup fetches one object with a per-lookup timeout, retrying exactly
// once on transient failure. Not-found results are returned immediately.
func (r *Resolver) lookup(ctx context.Context, objectPath string) (*store.Object, error) {
	var lastErr error

	for attempt := 1; attempt <= 2; attempt++ {
		start := time.Now()
		lctx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
		obj, err := r.store.Get(lctx, objectPath)
		cancel()
		lookupDuration.Observe(time.Since(start).Seconds())

		if err == nil {
			return obj, nil
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		lastErr = err

		// The caller abandoned the request; the retry would be wasted work.
		if ctx.Err() != nil {
			return nil, lastErr
		}

		if attempt == 1 {
			lookupRetriesTotal.Inc()
			r.logger.Debug().
				Err(err).
				Str("object_path", objectPath).
				Msg("Retrying store lookup")
		}
	}

	return nil, lastErr
}

// prerenderPath derives the prerendered counterpart of a route. Routes map
// to directory-style documents under the prerender prefix:
//
//	/            -> /prerendered/index.html
//	/products/42 -> /prerendered/products/42/index.html
func (r *Resolver) prerenderPath(path string) string {
	route := strings.TrimSuffix(path, "/")
	return r.prerenderPrefix + route + indexDocument
}

// assetPath maps a request path to its literal store object. Directory
// requests map to the index document inside the directory.
func assetPath(path string) string {
	if strings.HasSuffix(path, "/") {
		return path + "index.html"
	}
	return path
}

// normalizePath guarantees a leading slash and collapses an empty path to
// the root.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

// hasFileExtension reports whether the last path segment names a file
// (carries an extension). Such paths are asset requests and never fall back
// to the index document.
func hasFileExtension(path string) bool {
	return gopath.Ext(gopath.Base(path)) != ""
}
