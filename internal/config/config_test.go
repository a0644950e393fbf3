package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("EDGE_ORIGIN_ENDPOINT", "http://origin.internal")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Origin.Prefix != "/prerendered" {
		t.Errorf("Origin.Prefix = %q", cfg.Origin.Prefix)
	}
	if cfg.Origin.Timeout != 3*time.Second {
		t.Errorf("Origin.Timeout = %v, want 3s", cfg.Origin.Timeout)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("Cache.TTL = %v, want 5m", cfg.Cache.TTL)
	}
	if len(cfg.Classifier.Signatures) == 0 {
		t.Error("Classifier.Signatures should default to the built-in list")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoad_RequiresOrigin(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("Load() without origin endpoint or snapshot should fail")
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	content := `
server:
  port: 9090
origin:
  endpoint: http://bucket.example.test
  timeout: 1s
cache:
  ttl: 30s
classifier:
  signatures:
    - examplebot
    - link-preview
log:
  level: debug
  pretty: true
`
	path := filepath.Join(t.TempDir(), "edge.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Origin.Endpoint != "http://bucket.example.test" {
		t.Errorf("Origin.Endpoint = %q", cfg.Origin.Endpoint)
	}
	if cfg.Origin.Timeout != time.Second {
		t.Errorf("Origin.Timeout = %v, want 1s", cfg.Origin.Timeout)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Errorf("Cache.TTL = %v, want 30s", cfg.Cache.TTL)
	}
	if len(cfg.Classifier.Signatures) != 2 || cfg.Classifier.Signatures[0] != "examplebot" {
		t.Errorf("Classifier.Signatures = %v", cfg.Classifier.Signatures)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.Pretty {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	content := `
server:
  port: 9090
origin:
  endpoint: http://bucket.example.test
`
	path := filepath.Join(t.TempDir(), "edge.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("EDGE_SERVER_PORT", "7070")
	t.Setenv("EDGE_REDIS_ADDR", "redis.internal:6379")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, env should win over file", cfg.Server.Port)
	}
	if cfg.Redis.Addr != "redis.internal:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	// Untouched file values survive the overlay.
	if cfg.Origin.Endpoint != "http://bucket.example.test" {
		t.Errorf("Origin.Endpoint = %q", cfg.Origin.Endpoint)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Error("Load() with a missing file should fail")
	}
}
