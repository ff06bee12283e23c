// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/agrimitra-ai/scheme-engine/cmd/scheme-engine-api/handlers"
	"github.com/agrimitra-ai/scheme-engine/cmd/scheme-engine-api/middleware"
	"github.com/agrimitra-ai/scheme-engine/internal/config"
	"github.com/agrimitra-ai/scheme-engine/internal/observability"
	"github.com/agrimitra-ai/scheme-engine/pkg/engine"
)

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, cfg *config.Config, eng *engine.Engine) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(cfg.Server.ReadTimeout))

	// Health check (unauthenticated)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"scheme-engine"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ready"}`))
	})

	discoveryHandler := handlers.NewDiscoveryHandler(logger, eng, cfg.Retrieval.TopK)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/schemes", func(r chi.Router) {
			r.Post("/query", discoveryHandler.Query)
		})
	})

	return r
}
