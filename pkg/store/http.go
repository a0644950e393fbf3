package store

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultHTTPTimeout bounds a single origin fetch so a stalled store
	// cannot block the edge request budget.
	DefaultHTTPTimeout = 5 * time.Second

	// maxObjectSize caps how much of an origin response is read into memory.
	maxObjectSize = 32 << 20 // 32 MiB
)

// HTTPStore looks up objects on an HTTP origin, typically the website
// endpoint of the bucket that holds the published site.
type HTTPStore struct {
	endpoint   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewHTTPStore creates a store backed by the given origin endpoint
// (scheme://host[:port], no trailing slash required).
func NewHTTPStore(endpoint string, logger zerolog.Logger) (*HTTPStore, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("origin endpoint is required")
	}

	return &HTTPStore{
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: DefaultHTTPTimeout,
		},
		logger: logger.With().Str("component", "http-store").Logger(),
	}, nil
}

// Get implements Store. A 404 from the origin maps to ErrNotFound; any
// other non-2xx status or transport failure is a transient StoreError.
func (s *HTTPStore) Get(ctx context.Context, objectPath string) (*Object, error) {
	if !strings.HasPrefix(objectPath, "/") {
		objectPath = "/" + objectPath
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+objectPath, nil)
	if err != nil {
		return nil, &StoreError{Path: objectPath, Err: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", objectPath).Msg("Origin fetch failed")
		return nil, &StoreError{Path: objectPath, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusForbidden:
		// Bucket website endpoints answer 403 for unpublished keys.
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		s.logger.Warn().
			Str("path", objectPath).
			Int("status", resp.StatusCode).
			Msg("Unexpected origin status")
		return nil, &StoreError{Path: objectPath, Err: fmt.Errorf("origin status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxObjectSize))
	if err != nil {
		return nil, &StoreError{Path: objectPath, Err: fmt.Errorf("read body: %w", err)}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeForPath(objectPath)
	}

	s.logger.Debug().
		Str("path", objectPath).
		Int("bytes", len(body)).
		Str("content_type", contentType).
		Msg("Fetched origin object")

	return &Object{
		Body:        body,
		ContentType: contentType,
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (s *HTTPStore) SetHTTPClient(client *http.Client) {
	s.httpClient = client
}
