package resolver

import (
	"errors"
	"fmt"
)

// FailureKind classifies a resolution failure for error handling and
// observability.
type FailureKind string

const (
	// FailureNotFound means no candidate object exists and the path was not
	// eligible for the index fallback.
	FailureNotFound FailureKind = "not_found"

	// FailureUpstream means a store lookup kept failing after the retry.
	FailureUpstream FailureKind = "upstream"
)

// ErrNotFound is the sentinel wrapped by not-found resolution failures.
var ErrNotFound = errors.New("no object resolves for path")

// ResolveError reports a failed resolution with enough context for logs:
// the request path, the rendering signal in effect and the failure kind.
// None of it is meant for client response bodies.
type ResolveError struct {
	Path          string
	DynamicRender bool
	Kind          FailureKind
	Err           error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve %s (dynamic=%t): %s: %v", e.Path, e.DynamicRender, e.Kind, e.Err)
	}
	return fmt.Sprintf("resolve %s (dynamic=%t): %s", e.Path, e.DynamicRender, e.Kind)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ResolveError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a not-found resolution failure.
func IsNotFound(err error) bool {
	var rerr *ResolveError
	if errors.As(err, &rerr) {
		return rerr.Kind == FailureNotFound
	}
	return false
}
