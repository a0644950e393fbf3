package cache

import (
	"net/http"
	"strings"
)

// keyNamespace prefixes every cache key so invalidation can scan the
// pipeline's keys without touching unrelated data in the same Redis.
const keyNamespace = "edge"

// EncodingIdentity is the encoding dimension for uncompressed responses.
const EncodingIdentity = "identity"

// Key identifies one cached response variant. Two requests that differ in
// any dimension never share an entry; in particular the rendering signal
// partitions the cache so bot and browser variants cannot cross-contaminate.
type Key struct {
	// Path is the request path (normalized by String).
	Path string

	// DynamicRender is the rendering signal set by the classifier.
	DynamicRender bool

	// Encoding is the negotiated content encoding ("gzip", "identity", ...).
	// Empty means identity.
	Encoding string
}

// String generates a deterministic cache key string.
// Format: edge:<path>:render=<bool>:enc=<encoding>
//
// Example:
//
//	edge:/products/42:render=true:enc=gzip
func (k Key) String() string {
	encoding := k.Encoding
	if encoding == "" {
		encoding = EncodingIdentity
	}

	render := "false"
	if k.DynamicRender {
		render = "true"
	}

	return keyNamespace + ":" + NormalizePath(k.Path) + ":render=" + render + ":enc=" + encoding
}

// NormalizePath canonicalizes a request path for keying: leading slash
// guaranteed, trailing slash stripped except for the root, so "/docs" and
// "/docs/" share one entry per variant.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

// PrefixPattern returns the Redis MATCH pattern covering every cached
// variant under a path prefix, used by deployment-event invalidation.
func PrefixPattern(pathPrefix string) string {
	return keyNamespace + ":" + NormalizePath(pathPrefix) + "*"
}

// CacheableMethod reports whether responses to the given HTTP method are
// cached at all. Everything else bypasses the cache and always reaches the
// origin resolver.
func CacheableMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

// NegotiateEncoding picks the cache encoding dimension from an
// Accept-Encoding header. Only gzip is distinguished; everything else is
// the identity variant. The value is normalized so header ordering and
// quality parameters cannot split the cache.
func NegotiateEncoding(acceptEncoding string) string {
	for _, part := range strings.Split(acceptEncoding, ",") {
		enc := strings.TrimSpace(part)
		if i := strings.IndexByte(enc, ';'); i >= 0 {
			enc = strings.TrimSpace(enc[:i])
		}
		if strings.EqualFold(enc, "gzip") {
			return "gzip"
		}
	}
	return EncodingIdentity
}
