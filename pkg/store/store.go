// Package store provides read access to the published site objects that
// back the edge pipeline: the SPA bundle, static assets and prerendered
// documents.
//
// Objects are immutable once published, so every implementation is safe for
// unbounded concurrent reads. The resolver treats the store as strongly
// consistent for previously published paths.
package store

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
)

var (
	// ErrNotFound indicates no object exists at the requested path.
	ErrNotFound = errors.New("object not found")
)

// Object is a stored representation returned by a lookup. It is never
// mutated after being returned.
type Object struct {
	// Body is the raw object content.
	Body []byte

	// ContentType is the MIME type of the content.
	ContentType string
}

// Store is the lookup capability consumed by the origin resolver.
// Implementations must be safe for concurrent use and must honor context
// cancellation on blocking lookups.
type Store interface {
	// Get fetches the object at objectPath. It returns ErrNotFound when no
	// object exists there; any other error is treated as transient by the
	// caller and may be retried.
	Get(ctx context.Context, objectPath string) (*Object, error)
}

// StoreError wraps a transient lookup failure with the path it occurred on.
type StoreError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store lookup %s: %v", e.Path, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// contentTypeForPath derives a MIME type from the path extension, defaulting
// to application/octet-stream for unknown extensions.
func contentTypeForPath(objectPath string) string {
	if ct := mime.TypeByExtension(path.Ext(objectPath)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
