// Package api Shelf REST API
//
// @title           Shelf REST API
// @version         1.0.0
// @description     REST API over a shelf book catalog.
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 5 * time.Second

// Router builds the HTTP handler for the server with all routes configured
func (s *Server) Router() http.Handler {
	metrics := s.metrics

	r := chi.NewRouter()

	// Middleware
	r.Use(requestIDMiddleware)
	if !s.config.Quiet {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link", RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey, metrics))

		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Get("/books", metrics.InstrumentHandler("GET", "/api/v1/books", s.handleListBooks))
		r.Post("/books", metrics.InstrumentHandler("POST", "/api/v1/books", s.handleCreateBook))
		r.Delete("/books", metrics.InstrumentHandler("DELETE", "/api/v1/books", s.handleClearBooks))
		r.Get("/books/{id}", metrics.InstrumentHandler("GET", "/api/v1/books/{id}", s.handleGetBook))
		r.Put("/books/{id}", metrics.InstrumentHandler("PUT", "/api/v1/books/{id}", s.handleUpdateBook))
		r.Delete("/books/{id}", metrics.InstrumentHandler("DELETE", "/api/v1/books/{id}", s.handleDeleteBook))

		r.Get("/stats", metrics.InstrumentHandler("GET", "/api/v1/stats", s.handleStats))
	})

	return r
}

// Addr returns the listen address for the configuration
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// StartServer serves the API until ctx is cancelled, then shuts down
// gracefully
func StartServer(ctx context.Context, store IBookStore, config ServerConfig) error {
	server := NewServer(store, config, NewMetrics())

	srv := &http.Server{
		Addr:              config.Addr(),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	if !config.Quiet {
		fmt.Printf("Starting Shelf REST API server on %s\n", srv.Addr)
		fmt.Printf("Metrics available at: http://%s/metrics\n", srv.Addr)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve on %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if !config.Quiet {
		log.Printf("Shelf REST API server on %s stopped", srv.Addr)
	}
	return nil
}
