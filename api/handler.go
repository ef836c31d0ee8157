// Package api - HTTP handlers for size resolution and history
// These handlers wrap the resolver and store - they contain NO size logic.
package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"size-convert/core/resolver"
	apperrors "size-convert/internal/errors"
)

// handleResolve handles POST /resolve
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	q, err := req.Query()
	if err != nil {
		s.writeAppError(w, err)
		return
	}

	var opts []resolver.CallOption
	if !s.remoteAvailable() {
		opts = append(opts, resolver.WithoutRemote())
	}

	result, err := s.resolver.Resolve(r.Context(), q, opts...)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	s.writeJSON(w, result, http.StatusOK)
}

// handleBrands handles GET /brands
func (s *Server) handleBrands(w http.ResponseWriter, r *http.Request) {
	seen := make(map[string]bool)
	for _, b := range s.catalog.Current().Brands() {
		seen[b] = true
	}

	remote := false
	if s.store != nil && s.remoteAvailable() {
		names, err := s.store.ListBrands(r.Context())
		if err != nil {
			s.log.Warn("list remote brands", zap.Error(err))
		} else {
			remote = true
			for _, b := range names {
				seen[b] = true
			}
		}
	}

	brands := make([]string, 0, len(seen))
	for b := range seen {
		brands = append(brands, b)
	}
	sort.Strings(brands)

	s.writeJSON(w, BrandsResponse{Brands: brands, Count: len(brands), Remote: remote}, http.StatusOK)
}

// handleSaveHistory handles POST /history
func (s *Server) handleSaveHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, string(apperrors.TypeUnavailable), "history requires a database", http.StatusServiceUnavailable)
		return
	}

	var req SaveHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		s.writeAppError(w, err)
		return
	}
	q, err := req.Query.Query()
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	if err := resolver.Validate(q); err != nil {
		s.writeAppError(w, err)
		return
	}

	entry, err := s.store.SaveHistory(r.Context(), req.UserID, q, req.Result)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	s.writeJSON(w, entry, http.StatusCreated)
}

// handleListHistory handles GET /history/{userId}
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, string(apperrors.TypeUnavailable), "history requires a database", http.StatusServiceUnavailable)
		return
	}

	userID := r.PathValue("userId")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, string(apperrors.TypeInput), "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.store.ListHistory(r.Context(), userID, limit)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	s.writeJSON(w, HistoryResponse{UserID: userID, Entries: entries, Count: len(entries)}, http.StatusOK)
}
