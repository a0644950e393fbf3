// Package config loads the edge proxy configuration from an optional YAML
// file with an environment variable overlay (EDGE_ prefix).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/edgeward/renderedge/pkg/classifier"
)

// envPrefix is stripped from environment variables before they are mapped
// onto config keys: EDGE_ORIGIN_ENDPOINT -> origin.endpoint.
const envPrefix = "EDGE_"

// Config is the full edge proxy configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Redis      RedisConfig      `koanf:"redis"`
	Origin     OriginConfig     `koanf:"origin"`
	Cache      CacheConfig      `koanf:"cache"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Log        LogConfig        `koanf:"log"`
}

// ServerConfig configures the front-door HTTP server.
type ServerConfig struct {
	Port int `koanf:"port"`
}

// RedisConfig configures the cache backend.
type RedisConfig struct {
	Addr string `koanf:"addr"`
}

// OriginConfig configures the store the resolver reads from.
type OriginConfig struct {
	// Endpoint is the HTTP origin (bucket website endpoint). When empty and
	// Snapshot is set, the local snapshot store is used instead.
	Endpoint string `koanf:"endpoint"`

	// Snapshot is a local LevelDB snapshot directory, used when no HTTP
	// endpoint is configured (offline/dev serving).
	Snapshot string `koanf:"snapshot"`

	// Prefix is the store path prefix for prerendered documents.
	Prefix string `koanf:"prefix"`

	// Timeout bounds each store lookup.
	Timeout time.Duration `koanf:"timeout"`
}

// CacheConfig configures cached response freshness.
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// ClassifierConfig holds the automated-client signature allow-list.
type ClassifierConfig struct {
	Signatures []string `koanf:"signatures"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

// Load reads configuration from the optional YAML file at path (empty skips
// the file), overlays EDGE_-prefixed environment variables and fills in
// defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	// Default values
	defaults := map[string]interface{}{
		"server.port":    8080,
		"redis.addr":     "localhost:6379",
		"origin.prefix":  "/prerendered",
		"origin.timeout": "3s",
		"cache.ttl":      "5m",
		"log.level":      "info",
	}
	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.Classifier.Signatures) == 0 {
		cfg.Classifier.Signatures = classifier.DefaultSignatures()
	}

	if cfg.Origin.Endpoint == "" && cfg.Origin.Snapshot == "" {
		return nil, fmt.Errorf("either origin.endpoint or origin.snapshot is required")
	}

	return &cfg, nil
}
