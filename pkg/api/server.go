// Package api exposes cache file inspection over HTTP: decoding
// entries, rewriting expiry timestamps and scanning a cache tree, with
// Prometheus metrics on the side.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// StartServer starts the HTTP server with all routes configured. It
// blocks until the listener fails.
func StartServer(config ServerConfig) error {
	metrics := NewMetrics()
	server := NewServer(config, metrics)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication for everything else
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(config.APIKey, metrics))

		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		r.Get("/entries", metrics.InstrumentHandler("GET", "/api/v1/entries", server.handleGetEntry))
		r.Get("/entries/scan", metrics.InstrumentHandler("GET", "/api/v1/entries/scan", server.handleScan))
		r.Post("/entries/expire", metrics.InstrumentHandler("POST", "/api/v1/entries/expire", server.handleExpire))
	})

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	logrus.WithFields(logrus.Fields{
		"addr":       addr,
		"cache_root": config.CacheRoot,
	}).Info("starting cache inspection API")

	return http.ListenAndServe(addr, r)
}
