// Package api - API types for size resolution
// These types define the JSON contract of the HTTP endpoints.
package api

import (
	"strings"

	"size-convert/core/types"
	"size-convert/db"
	apperrors "size-convert/internal/errors"
)

// ResolveRequest is the input to POST /resolve.
// Enumerations are plain strings so aliases such as "chest" or "in" are accepted.
type ResolveRequest struct {
	Brand           string  `json:"brand"`
	GarmentType     string  `json:"garmentType"`
	MeasurementType string  `json:"measurementType"`
	Value           float64 `json:"value"`
	Unit            string  `json:"unit"`
}

// Query parses the request into a resolver query
func (r ResolveRequest) Query() (types.SizeQuery, error) {
	m, err := types.ParseMeasurementType(r.MeasurementType)
	if err != nil {
		return types.SizeQuery{}, err
	}
	unit, err := types.ParseUnit(r.Unit)
	if err != nil {
		return types.SizeQuery{}, err
	}
	return types.SizeQuery{
		Brand:           strings.TrimSpace(r.Brand),
		GarmentType:     strings.TrimSpace(r.GarmentType),
		MeasurementType: m,
		Value:           r.Value,
		Unit:            unit,
	}, nil
}

// SaveHistoryRequest is the input to POST /history
type SaveHistoryRequest struct {
	UserID string           `json:"userId"`
	Query  ResolveRequest   `json:"query"`
	Result types.SizeResult `json:"result"`
}

func (r SaveHistoryRequest) validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return apperrors.Input("userId is required")
	}
	if r.Result.Source == "" {
		return apperrors.Input("result.source is required")
	}
	return nil
}

// HistoryResponse is the output of GET /history/{userId}
type HistoryResponse struct {
	UserID  string            `json:"userId"`
	Entries []db.HistoryEntry `json:"entries"`
	Count   int               `json:"count"`
}

// BrandsResponse is the output of GET /brands
type BrandsResponse struct {
	Brands []string `json:"brands"`
	Count  int      `json:"count"`
	// Remote is false when the data source was not consulted
	Remote bool `json:"remote"`
}

// HealthResponse is the output of GET /health
type HealthResponse struct {
	Status          string `json:"status"`
	Version         string `json:"version"`
	RemoteAvailable bool   `json:"remoteAvailable"`
	CatalogBrands   int    `json:"catalogBrands"`
	Time            string `json:"time"`
}

// ErrorBody is the error envelope of every failed request
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failure
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
