package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"size-convert/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Database.DSN = filepath.Join(t.TempDir(), "sizes.db")
	return cfg
}

func TestOpenWiresStore(t *testing.T) {
	a, err := Open(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Store)
	assert.NotNil(t, a.Monitor)
	assert.Contains(t, a.Catalog.Current().Brands(), "Zara")

	h, err := a.Handler()
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history/u1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOpenWithoutDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "postgres"
	cfg.Database.DSN = "postgres://nobody@127.0.0.1:1/sizes?sslmode=disable&connect_timeout=1"

	a, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.Store)

	h, err := a.Handler()
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	body := `{"brand":"Nobody","garmentType":"tops","measurementType":"waist","value":28,"unit":"inches"}`
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/resolve", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source":"estimate"`)
}

func TestOpenWithCatalogOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brands.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
brand "Acme" {
  measurement "bust" {
    region "US" {
      bounds = [30, 34, 38]
      labels = ["S", "M"]
    }
    region "UK" {
      bounds = [30, 34, 38]
      labels = ["8", "10"]
    }
    region "EU" {
      bounds = [30, 34, 38]
      labels = ["36", "38"]
    }
  }
}
`), 0644))

	for _, watch := range []bool{false, true} {
		cfg := testConfig(t)
		cfg.Catalog.OverridePath = path
		cfg.Catalog.Watch = watch

		a, err := Open(context.Background(), cfg)
		require.NoError(t, err)
		brands := a.Catalog.Current().Brands()
		assert.Contains(t, brands, "Acme")
		assert.Contains(t, brands, "Zara")
		require.NoError(t, a.Close())
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Addr = "127.0.0.1:0"

	a, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
