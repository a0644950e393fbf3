package cache

import (
	"net/http"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "root path browser variant",
			key:  Key{Path: "/"},
			want: "edge:/:render=false:enc=identity",
		},
		{
			name: "deep link bot variant",
			key:  Key{Path: "/products/42", DynamicRender: true},
			want: "edge:/products/42:render=true:enc=identity",
		},
		{
			name: "gzip encoding dimension",
			key:  Key{Path: "/products/42", Encoding: "gzip"},
			want: "edge:/products/42:render=false:enc=gzip",
		},
		{
			name: "trailing slash normalized away",
			key:  Key{Path: "/docs/", DynamicRender: true},
			want: "edge:/docs:render=true:enc=identity",
		},
		{
			name: "missing leading slash added",
			key:  Key{Path: "assets/app.js"},
			want: "edge:/assets/app.js:render=false:enc=identity",
		},
		{
			name: "empty path is root",
			key:  Key{Path: ""},
			want: "edge:/:render=false:enc=identity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("Key.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_VariantsNeverCollide(t *testing.T) {
	// Two requests differing only in the rendering signal, or only in the
	// encoding, must map to distinct keys.
	base := Key{Path: "/products/42"}
	bot := Key{Path: "/products/42", DynamicRender: true}
	gzip := Key{Path: "/products/42", Encoding: "gzip"}

	if base.String() == bot.String() {
		t.Error("browser and bot variants share a cache key")
	}
	if base.String() == gzip.String() {
		t.Error("identity and gzip variants share a cache key")
	}
	if bot.String() == gzip.String() {
		t.Error("bot and gzip variants share a cache key")
	}
}

func TestKey_Deterministic(t *testing.T) {
	key := Key{Path: "/products/42", DynamicRender: true, Encoding: "gzip"}

	first := key.String()
	for i := 0; i < 10; i++ {
		if key.String() != first {
			t.Fatal("Key.String() must be deterministic")
		}
	}
}

func TestPrefixPattern(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{prefix: "/", want: "edge:/*"},
		{prefix: "/products", want: "edge:/products*"},
		{prefix: "/products/", want: "edge:/products*"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := PrefixPattern(tt.prefix); got != tt.want {
				t.Errorf("PrefixPattern(%q) = %q, want %q", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestCacheableMethod(t *testing.T) {
	tests := []struct {
		method string
		want   bool
	}{
		{method: http.MethodGet, want: true},
		{method: http.MethodHead, want: true},
		{method: http.MethodOptions, want: true},
		{method: http.MethodPost, want: false},
		{method: http.MethodPut, want: false},
		{method: http.MethodDelete, want: false},
		{method: http.MethodPatch, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			if got := CacheableMethod(tt.method); got != tt.want {
				t.Errorf("CacheableMethod(%q) = %v, want %v", tt.method, got, tt.want)
			}
		})
	}
}

func TestNegotiateEncoding(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "plain gzip", header: "gzip", want: "gzip"},
		{name: "gzip among others", header: "br, gzip, deflate", want: "gzip"},
		{name: "gzip with quality", header: "gzip;q=0.8, identity;q=1.0", want: "gzip"},
		{name: "uppercase", header: "GZIP", want: "gzip"},
		{name: "no gzip", header: "br, deflate", want: EncodingIdentity},
		{name: "empty header", header: "", want: EncodingIdentity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NegotiateEncoding(tt.header); got != tt.want {
				t.Errorf("NegotiateEncoding(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
