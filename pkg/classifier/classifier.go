// Package classifier decides whether a request needs dynamic rendering
// based on its User-Agent header.
//
// The decision is carried downstream as a reserved request header so the
// cache layer can partition cached responses by rendering variant and the
// origin resolver can pick the prerendered representation. The header is a
// private contract: the front door must strip any client-supplied value
// before Apply runs.
package classifier

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Header vocabulary shared between the classifier, the cache key and the
// origin resolver.
const (
	// SignalHeader carries the rendering decision between pipeline stages.
	SignalHeader = "X-Dynamic-Render"

	// SignalTrue marks a request that needs a prerendered representation.
	SignalTrue = "true"

	// SignalFalse marks a request served the regular SPA bundle.
	SignalFalse = "false"
)

var classificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "edge_classifications_total",
	Help: "Total classified requests by rendering decision",
}, []string{"dynamic_render"})

// Classifier matches User-Agent values against a set of automated-client
// signatures. It is stateless after construction and safe for concurrent use.
type Classifier struct {
	signatures []string
}

// New creates a classifier from a signature list. Signatures are matched as
// case-insensitive substrings of the User-Agent header. An empty list yields
// a classifier that marks every request as not needing dynamic rendering.
func New(signatures []string) *Classifier {
	lowered := make([]string, 0, len(signatures))
	for _, sig := range signatures {
		sig = strings.ToLower(strings.TrimSpace(sig))
		if sig == "" {
			continue
		}
		lowered = append(lowered, sig)
	}
	return &Classifier{signatures: lowered}
}

// Classify reports whether the given User-Agent value belongs to an
// automated client. An empty or unrecognized value is never an error and
// classifies as false.
func (c *Classifier) Classify(userAgent string) bool {
	if userAgent == "" {
		return false
	}

	ua := strings.ToLower(userAgent)
	for _, sig := range c.signatures {
		if strings.Contains(ua, sig) {
			return true
		}
	}
	return false
}

// Apply classifies the request and sets the signal header on it, overwriting
// any existing value. It returns the decision for convenience.
func (c *Classifier) Apply(r *http.Request) bool {
	dynamic := c.Classify(r.Header.Get("User-Agent"))

	if dynamic {
		r.Header.Set(SignalHeader, SignalTrue)
		classificationsTotal.WithLabelValues("true").Inc()
	} else {
		r.Header.Set(SignalHeader, SignalFalse)
		classificationsTotal.WithLabelValues("false").Inc()
	}

	return dynamic
}

// SignalFromRequest reads the rendering signal set by Apply. Any value other
// than SignalTrue (including a missing header) reads as false, so a broken
// or absent header contract degrades to the regular SPA path.
func SignalFromRequest(r *http.Request) bool {
	return r.Header.Get(SignalHeader) == SignalTrue
}

// StripSignal removes any client-supplied signal header. The front door must
// call this before Apply so the header cannot be forged from outside.
func StripSignal(r *http.Request) {
	r.Header.Del(SignalHeader)
}
