// Package server wires the loaded dataset, distance oracle, store, and
// metrics into an HTTP server.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"resource-center-placer/internal/config"
	"resource-center-placer/internal/database"
	"resource-center-placer/internal/distance"
	"resource-center-placer/internal/handlers"
	"resource-center-placer/internal/loader"
	"resource-center-placer/internal/metrics"
)

// Config holds server configuration
type Config struct {
	Addr            string // e.g., "127.0.0.1:8080" or "127.0.0.1:0" for random port
	PointsPath      string
	ZonesPath       string
	DistancesPath   string
	ConstraintsPath string
	DBPath          string // empty disables persistence
	Registry        prometheus.Registerer
}

// Server wraps the HTTP server and all dependencies
type Server struct {
	httpServer *http.Server
	handler    *handlers.Handler
	db         database.DataStore
	listener   net.Listener
	addr       string
}

// New creates and initializes a new server (does not start it)
func New(cfg Config) (*Server, error) {
	points, entries, stats, err := loader.Load(cfg.PointsPath, cfg.ZonesPath, cfg.DistancesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	log.Printf("[SERVER] Dataset loaded: points=%d distance_entries=%d unmatched_zones=%d",
		stats.Points, stats.DistanceEntries, stats.UnmatchedZones)

	oracle := distance.NewTableOracle(points)
	oracle.Load(entries)

	defaults, err := config.Load(cfg.ConstraintsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load constraints: %w", err)
	}

	var db database.DataStore
	if cfg.DBPath != "" {
		store, err := database.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize data store: %w", err)
		}
		db = store

		cached, err := store.DistanceCache().GetAll(context.Background())
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to hydrate distance cache: %w", err)
		}
		oracle.Load(cached)
		log.Printf("[SERVER] Distance cache hydrated: entries=%d", len(cached))
	}

	collector, err := metrics.NewCollector(cfg.Registry)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	handler := &handlers.Handler{
		DB:       db,
		Points:   points,
		Oracle:   oracle,
		Metrics:  collector,
		Defaults: defaults,
	}

	router := setupRoutes(handler, collector)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
		db:         db,
		addr:       cfg.Addr,
	}, nil
}

// setupRoutes mounts the API, health, and metrics endpoints
func setupRoutes(handler *handlers.Handler, collector *metrics.Collector) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.HandleHealthCheck)
	r.Method(http.MethodGet, "/metrics", collector.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/optimize", handler.HandleOptimize)
		r.Get("/points", handler.HandleListPoints)
		r.Get("/runs", handler.HandleListRuns)
		r.Get("/runs/{id}", handler.HandleGetRun)
		r.Delete("/runs/{id}", handler.HandleDeleteRun)
	})

	return r
}

// Start starts the server and returns the actual address (useful for random port)
func (s *Server) Start() (string, error) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = listener
	actualAddr := listener.Addr().String()
	log.Printf("[SERVER] Listening on %s", actualAddr)

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("[SERVER] Serve error: %v", err)
		}
	}()

	return actualAddr, nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
