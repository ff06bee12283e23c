// Package main provides the scheme engine API server entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/agrimitra-ai/scheme-engine/internal/cache"
	"github.com/agrimitra-ai/scheme-engine/internal/config"
	"github.com/agrimitra-ai/scheme-engine/internal/corpus"
	"github.com/agrimitra-ai/scheme-engine/internal/index"
	"github.com/agrimitra-ai/scheme-engine/internal/observability"
	"github.com/agrimitra-ai/scheme-engine/pkg/engine"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "scheme-engine",
	})

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("corpus", cfg.Corpus.Source).
		Str("cache", cfg.Cache.Driver).
		Msg("Starting Scheme Engine API")

	src, closeSrc, err := buildCorpusSource(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open corpus source")
	}
	if closeSrc != nil {
		defer closeSrc()
	}

	cacheClient := buildCache(cfg, logger)
	if cacheClient != nil {
		defer cacheClient.Close()
	}

	eng := engine.New(src,
		engine.WithLogger(logger),
		engine.WithCache(cacheClient, cfg.Cache.TTL),
		engine.WithIndexOptions(index.Options{
			MaxVocabSize: cfg.Retrieval.MaxVocabSize,
			MinDocFreq:   cfg.Retrieval.MinDocFreq,
		}),
	)

	router := NewRouter(logger, cfg, eng)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error().Err(err).Msg("Server error")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
}

// buildCorpusSource picks the configured corpus backend. The returned
// close function is nil for the JSON source.
func buildCorpusSource(cfg *config.Config) (corpus.Source, func() error, error) {
	if cfg.Corpus.Source == "sqlite" {
		src, db, err := corpus.OpenSQLiteSource(
			cfg.Corpus.SQLite.Path,
			cfg.Corpus.SQLite.Table,
			cfg.Corpus.SQLite.MaxOpenConns,
		)
		if err != nil {
			return nil, nil, err
		}
		return src, db.Close, nil
	}
	return corpus.NewJSONSource(cfg.Corpus.JSON.Path), nil, nil
}

// buildCache picks the configured cache backend. Redis failures fall back
// to the memory cache so the API stays up.
func buildCache(cfg *config.Config, logger *observability.Logger) cache.Client {
	switch cfg.Cache.Driver {
	case "none":
		return nil
	case "redis":
		client, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, using memory cache")
			return cache.NewMemoryClient(cfg.Cache.MaxEntries)
		}
		return client
	default:
		return cache.NewMemoryClient(cfg.Cache.MaxEntries)
	}
}
