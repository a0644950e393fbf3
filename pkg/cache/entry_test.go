package cache

import (
	"testing"
	"time"
)

func TestEntry_IsExpired(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{
			name:    "expired entry",
			expires: time.Now().Add(-1 * time.Hour),
			want:    true,
		},
		{
			name:    "valid entry",
			expires: time.Now().Add(1 * time.Hour),
			want:    false,
		},
		{
			name:    "just expired",
			expires: time.Now().Add(-1 * time.Second),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{
				Expires: tt.expires,
			}
			if got := entry.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_TTL(t *testing.T) {
	t.Run("future expiry", func(t *testing.T) {
		entry := &Entry{Expires: time.Now().Add(1 * time.Hour)}

		ttl := entry.TTL()
		if ttl <= 59*time.Minute || ttl > time.Hour {
			t.Errorf("TTL() = %v, want roughly one hour", ttl)
		}
	})

	t.Run("expired entry", func(t *testing.T) {
		entry := &Entry{Expires: time.Now().Add(-1 * time.Minute)}

		if ttl := entry.TTL(); ttl != 0 {
			t.Errorf("TTL() = %v, want 0 for an expired entry", ttl)
		}
	})
}

func TestNewEntry(t *testing.T) {
	entry := NewEntry([]byte("<html></html>"), "text/html", 200, "index_fallback", 5*time.Minute)

	if string(entry.Data) != "<html></html>" {
		t.Errorf("Data = %q", entry.Data)
	}
	if entry.ContentType != "text/html" {
		t.Errorf("ContentType = %q, want text/html", entry.ContentType)
	}
	if entry.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", entry.StatusCode)
	}
	if entry.Source != "index_fallback" {
		t.Errorf("Source = %q, want index_fallback", entry.Source)
	}
	if entry.IsExpired() {
		t.Error("fresh entry should not be expired")
	}
	if ttl := entry.TTL(); ttl <= 4*time.Minute || ttl > 5*time.Minute {
		t.Errorf("TTL() = %v, want roughly five minutes", ttl)
	}
}
