package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"size-convert/core/catalog"
	"size-convert/core/resolver"
	"size-convert/core/types"
	"size-convert/db"
)

type switchMonitor struct {
	up atomic.Bool
}

func (m *switchMonitor) Available() bool { return m.up.Load() }

func openStore(t *testing.T) *db.Store {
	t.Helper()
	s, err := db.Open(context.Background(), db.DriverSQLite, filepath.Join(t.TempDir(), "sizes.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	bust := func(region types.Region, label, lo, hi string) types.MeasurementRange {
		return types.MeasurementRange{
			Brand: "Acme", GarmentType: "tops", Region: region, Label: label,
			MeasurementType: types.Bust, Min: decimal.RequireFromString(lo), Max: decimal.RequireFromString(hi),
			Unit: types.UnitInches,
		}
	}
	_, err = s.WriteRanges(context.Background(), []types.MeasurementRange{
		bust(types.RegionUS, "Petite M", "34", "36"),
		bust(types.RegionUK, "12P", "34", "36"),
		bust(types.RegionEU, "40P", "34", "36"),
	}, nil)
	require.NoError(t, err)
	return s
}

func newTestServer(t *testing.T, withStore bool) (*Server, *switchMonitor) {
	t.Helper()
	cat := catalog.Bundled()
	if !withStore {
		return NewServer("test", resolver.New(cat), cat), nil
	}
	store := openStore(t)
	mon := &switchMonitor{}
	mon.up.Store(true)
	res := resolver.New(cat, resolver.WithSource(store, time.Second))
	return NewServerWithStore("test", res, cat, store, mon), mon
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestResolveFromCatalog(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := do(t, s, http.MethodPost, "/resolve",
		`{"brand":"Zara","garmentType":"tops","measurementType":"bust","value":86,"unit":"cm"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	got := decode[types.SizeResult](t, rec)
	assert.Equal(t, types.SizeResult{USSize: "S", UKSize: "8", EUSize: "36", Source: types.TierCatalog}, got)
}

func TestResolveFromStoreAndMonitor(t *testing.T) {
	s, mon := newTestServer(t, true)
	body := `{"brand":"Acme","garmentType":"tops","measurementType":"chest","value":35,"unit":"in"}`

	got := decode[types.SizeResult](t, do(t, s, http.MethodPost, "/resolve", body))
	assert.Equal(t, types.SizeResult{USSize: "Petite M", UKSize: "12P", EUSize: "40P", Source: types.TierRemote}, got)

	mon.up.Store(false)
	got = decode[types.SizeResult](t, do(t, s, http.MethodPost, "/resolve", body))
	assert.Equal(t, types.TierEstimate, got.Source, "an unavailable source is skipped")
}

func TestResolveRejectsMalformedInput(t *testing.T) {
	s, _ := newTestServer(t, false)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"not json", `{`, "INVALID_JSON"},
		{"negative", `{"brand":"Zara","garmentType":"tops","measurementType":"bust","value":-1,"unit":"cm"}`, "INPUT_ERROR"},
		{"zero", `{"brand":"Zara","garmentType":"tops","measurementType":"bust","value":0,"unit":"cm"}`, "INPUT_ERROR"},
		{"unit", `{"brand":"Zara","garmentType":"tops","measurementType":"bust","value":86,"unit":"furlongs"}`, "INPUT_ERROR"},
		{"measurement", `{"brand":"Zara","garmentType":"tops","measurementType":"neck","value":86,"unit":"cm"}`, "INPUT_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/resolve", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decode[ErrorBody](t, rec).Error.Code)
		})
	}
}

func TestBrandsUnion(t *testing.T) {
	s, mon := newTestServer(t, true)

	got := decode[BrandsResponse](t, do(t, s, http.MethodGet, "/brands", ""))
	assert.True(t, got.Remote)
	assert.Contains(t, got.Brands, "Acme")
	assert.Contains(t, got.Brands, "Zara")
	assert.IsIncreasing(t, got.Brands)

	mon.up.Store(false)
	got = decode[BrandsResponse](t, do(t, s, http.MethodGet, "/brands", ""))
	assert.False(t, got.Remote)
	assert.NotContains(t, got.Brands, "Acme")
}

func TestHistoryEndpoints(t *testing.T) {
	s, _ := newTestServer(t, true)

	body := `{"userId":"u1","query":{"brand":"Zara","garmentType":"tops","measurementType":"bust","value":86,"unit":"cm"},
		"result":{"usSize":"S","ukSize":"8","euSize":"36","source":"catalog"}}`
	rec := do(t, s, http.MethodPost, "/history", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved := decode[db.HistoryEntry](t, rec)
	assert.Equal(t, "u1", saved.UserID)

	rec = do(t, s, http.MethodGet, "/history/u1?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[HistoryResponse](t, rec)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, saved.ID, list.Entries[0].ID)
	assert.Equal(t, "36", list.Entries[0].Result.EUSize)

	rec = do(t, s, http.MethodGet, "/history/u1?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/history", `{"userId":" ","query":{},"result":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryWithoutStore(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/history/u1", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "UNAVAILABLE", decode[ErrorBody](t, rec).Error.Code)
}

func TestHealthAndVersion(t *testing.T) {
	s, mon := newTestServer(t, true)

	h := decode[HealthResponse](t, do(t, s, http.MethodGet, "/health", ""))
	assert.Equal(t, "healthy", h.Status)
	assert.True(t, h.RemoteAvailable)
	assert.Positive(t, h.CatalogBrands)

	mon.up.Store(false)
	h = decode[HealthResponse](t, do(t, s, http.MethodGet, "/health", ""))
	assert.Equal(t, "degraded", h.Status)

	v := decode[map[string]string](t, do(t, s, http.MethodGet, "/version", ""))
	assert.Equal(t, "test", v["version"])
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := do(t, s, http.MethodGet, "/resolve", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
