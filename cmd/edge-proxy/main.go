// Command edge-proxy is the front door of the dynamic-rendering edge
// pipeline: it classifies incoming requests, serves cached response
// variants from Redis and resolves cache misses against the published site
// store.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/edgeward/renderedge/internal/config"
	"github.com/edgeward/renderedge/internal/frontdoor"
	"github.com/edgeward/renderedge/pkg/cache"
	"github.com/edgeward/renderedge/pkg/classifier"
	"github.com/edgeward/renderedge/pkg/logging"
	"github.com/edgeward/renderedge/pkg/resolver"
	"github.com/edgeward/renderedge/pkg/store"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// Optional .env for local development; environment always wins.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
		Output: os.Stderr,
	})

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("edge-proxy failed")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx := context.Background()

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
	}
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")

	st, cleanup, err := buildStore(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := resolver.New(resolver.Config{
		Store:           st,
		PrerenderPrefix: cfg.Origin.Prefix,
		LookupTimeout:   cfg.Origin.Timeout,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("create resolver: %w", err)
	}

	manager := cache.NewManager(redisClient)

	handler, err := frontdoor.NewHandler(frontdoor.Config{
		Classifier: classifier.New(cfg.Classifier.Signatures),
		Cache:      manager,
		Resolver:   res,
		CacheTTL:   cfg.Cache.TTL,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	router := frontdoor.NewRouter(handler, manager, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Int("port", cfg.Server.Port).
			Int("signatures", len(cfg.Classifier.Signatures)).
			Msg("Starting edge proxy")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildStore picks the store implementation from configuration: the HTTP
// origin when an endpoint is configured, otherwise a local snapshot.
func buildStore(cfg *config.Config, logger zerolog.Logger) (store.Store, func(), error) {
	if cfg.Origin.Endpoint != "" {
		st, err := store.NewHTTPStore(cfg.Origin.Endpoint, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("create origin store: %w", err)
		}
		return st, func() {}, nil
	}

	st, err := store.OpenLevelDBStore(cfg.Origin.Snapshot, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return st, func() { st.Close() }, nil
}
