package cache

import (
	"time"
)

// Entry represents one cached response variant.
type Entry struct {
	// Data is the response body.
	Data []byte `json:"data"`

	// ContentType is the MIME type of the body.
	ContentType string `json:"content_type"`

	// StatusCode is the HTTP status the response was served with.
	StatusCode int `json:"status_code"`

	// Source records which resolution source produced the body
	// (prerender, asset, index_fallback); surfaced in debug headers.
	Source string `json:"source"`

	// Expires is when the entry becomes stale.
	Expires time.Time `json:"expires"`

	// CachedAt is when the entry was stored.
	CachedAt time.Time `json:"cached_at"`
}

// NewEntry creates an entry with a bounded freshness lifetime.
func NewEntry(data []byte, contentType string, statusCode int, source string, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Data:        data,
		ContentType: contentType,
		StatusCode:  statusCode,
		Source:      source,
		Expires:     now.Add(ttl),
		CachedAt:    now,
	}
}

// IsExpired returns true if the entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
