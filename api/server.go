// Package api - Thin HTTP layer over the size resolver
// The API is ONLY responsible for: input parsing, resolver orchestration, output serialization.
// The API NEVER performs size logic.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"size-convert/core/catalog"
	"size-convert/core/resolver"
	"size-convert/core/types"
	"size-convert/db"
	apperrors "size-convert/internal/errors"
	"size-convert/internal/logging"
)

// Store is the persistence the API needs beyond the resolver
type Store interface {
	ListBrands(ctx context.Context) ([]string, error)
	SaveHistory(ctx context.Context, userID string, q types.SizeQuery, res types.SizeResult) (db.HistoryEntry, error)
	ListHistory(ctx context.Context, userID string, limit int) ([]db.HistoryEntry, error)
}

// Availability reports whether the range data source is reachable
type Availability interface {
	Available() bool
}

// Server is the API server
type Server struct {
	mux      *http.ServeMux
	version  string
	resolver *resolver.Resolver
	catalog  catalog.Provider
	store    Store
	monitor  Availability
	log      *zap.Logger
}

// NewServer creates a new API server (without database)
func NewServer(version string, res *resolver.Resolver, cat catalog.Provider) *Server {
	return NewServerWithStore(version, res, cat, nil, nil)
}

// NewServerWithStore creates a new API server with database connection.
// A nil monitor means the data source is always consulted.
func NewServerWithStore(version string, res *resolver.Resolver, cat catalog.Provider, store Store, monitor Availability) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		version:  version,
		resolver: res,
		catalog:  cat,
		store:    store,
		monitor:  monitor,
		log:      logging.Named("api"),
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("POST /resolve", s.handleResolve)
	s.mux.HandleFunc("GET /brands", s.handleBrands)
	s.mux.HandleFunc("POST /history", s.handleSaveHistory)
	s.mux.HandleFunc("GET /history/{userId}", s.handleListHistory)

	// Supporting endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

// remoteAvailable reports whether requests should consult the data source
func (s *Server) remoteAvailable() bool {
	return s.monitor == nil || s.monitor.Available()
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	remote := s.store != nil && s.remoteAvailable()
	status := "healthy"
	if s.store != nil && !remote {
		status = "degraded"
	}
	s.writeJSON(w, HealthResponse{
		Status:          status,
		Version:         s.version,
		RemoteAvailable: remote,
		CatalogBrands:   len(s.catalog.Current().Brands()),
		Time:            time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "size-convert",
		"api_version": "v1",
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data any, status int) {
	if err := writeJSON(w, data, status); err != nil {
		s.log.Debug("write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, ErrorBody{Error: ErrorDetail{Code: code, Message: message}}, status)
}

func writeJSON(w http.ResponseWriter, data any, status int) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func writeErrorBody(w http.ResponseWriter, code, message string, status int) {
	_ = writeJSON(w, ErrorBody{Error: ErrorDetail{Code: code, Message: message}}, status)
}

// writeAppError maps a domain error onto an HTTP status
func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	t := apperrors.TypeOf(err)
	status := http.StatusInternalServerError
	switch t {
	case apperrors.TypeInput:
		status = http.StatusBadRequest
	case apperrors.TypeNotFound:
		status = http.StatusNotFound
	case apperrors.TypeUnavailable:
		status = http.StatusServiceUnavailable
	case "":
		t = apperrors.TypeInternal
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	s.writeError(w, string(t), err.Error(), status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.log.Debug("request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("duration", time.Since(start)))
}

// ListenAndServe starts the server
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
