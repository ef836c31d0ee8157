package ingestion

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"size-convert/core/catalog"
	"size-convert/core/resolver"
	"size-convert/core/types"
	"size-convert/db"
	apperrors "size-convert/internal/errors"
)

const sample = `brand,garment,region,size,measurement,min,max,unit
Acme,tops,US,S,bust,32,34,inches
Acme,tops,US,M,bust,34,36,inches
Acme,tops,UK,10,bust,86.36,91.44,cm
Acme,pants,EU,38,waist,27,29,in
`

type recordingWriter struct {
	ranges []types.MeasurementRange
	scopes []db.ReplaceScope
	calls  int
}

func (w *recordingWriter) WriteRanges(_ context.Context, ranges []types.MeasurementRange, replace []db.ReplaceScope) (int, error) {
	w.calls++
	w.ranges = ranges
	w.scopes = replace
	return len(ranges), nil
}

func TestReadCSV(t *testing.T) {
	in := "unit, max ,min,measurement,size,region,garment,brand,notes\ninches,36,34,bust,M,US,tops,Acme,first\n"
	rows, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, RawRange{
		Line: 2, Brand: "Acme", Garment: "tops", Region: "US", Size: "M",
		Measurement: "bust", Min: "34", Max: "36", Unit: "inches",
	}, rows[0])
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"missing column", "brand,garment,region,size,measurement,min,max\n"},
		{"ragged row", "brand,garment,region,size,measurement,min,max,unit\nAcme,tops\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.TypeImport))
		})
	}
}

func TestNormalizeConvertsCentimeters(t *testing.T) {
	ranges, err := Normalize([]RawRange{
		{Line: 2, Brand: "Acme", Garment: "tops", Region: "uk", Size: "10", Measurement: "chest", Min: "86.36", Max: "91.44", Unit: "cm"},
	})
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	r := ranges[0]
	assert.Equal(t, types.RegionUK, r.Region)
	assert.Equal(t, types.Bust, r.MeasurementType)
	assert.Equal(t, types.UnitInches, r.Unit)
	assert.True(t, r.Min.Equal(decimal.NewFromInt(34)), r.Min.String())
	assert.True(t, r.Max.Equal(decimal.NewFromInt(36)), r.Max.String())
}

func TestNormalizeReportsEveryBadLine(t *testing.T) {
	_, err := Normalize([]RawRange{
		{Line: 2, Brand: "Acme", Garment: "tops", Region: "JP", Size: "M", Measurement: "bust", Min: "1", Max: "2", Unit: "in"},
		{Line: 3, Brand: "Acme", Garment: "tops", Region: "US", Size: "M", Measurement: "bust", Min: "abc", Max: "2", Unit: "in"},
		{Line: 4, Brand: "", Garment: "tops", Region: "US", Size: "M", Measurement: "bust", Min: "1", Max: "2", Unit: "in"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeImport))
	for _, line := range []string{"line 2", "line 3", "line 4"} {
		assert.Contains(t, err.Error(), line)
	}
}

func TestValidator(t *testing.T) {
	r := func(label, lo, hi string) types.MeasurementRange {
		return types.MeasurementRange{
			Brand: "Acme", GarmentType: "tops", Region: types.RegionUS, Label: label,
			MeasurementType: types.Bust, Min: decimal.RequireFromString(lo), Max: decimal.RequireFromString(hi),
			Unit: types.UnitInches,
		}
	}

	t.Run("touching ranges are fine", func(t *testing.T) {
		res := NewValidator(false).Validate([]types.MeasurementRange{r("M", "34", "36"), r("S", "32", "34")})
		assert.True(t, res.IsValid)
		assert.Empty(t, res.Warnings)
		assert.Equal(t, 1, res.Groups)
	})

	t.Run("overlap warns", func(t *testing.T) {
		res := NewValidator(false).Validate([]types.MeasurementRange{r("S", "32", "35"), r("M", "34", "36")})
		assert.True(t, res.IsValid)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "overlaps")
	})

	t.Run("overlap rejected when strict", func(t *testing.T) {
		res := NewValidator(true).Validate([]types.MeasurementRange{r("S", "32", "35"), r("M", "34", "36")})
		assert.False(t, res.IsValid)
	})

	t.Run("invariants", func(t *testing.T) {
		res := NewValidator(false).Validate([]types.MeasurementRange{
			r("", "30", "31"),
			r("XS", "-1", "2"),
			r("L", "40", "38"),
			r("XL", "42", "42"),
		})
		assert.False(t, res.IsValid)
		assert.Len(t, res.Errors, 3)
		assert.Len(t, res.Warnings, 1)
	})
}

func TestPipelineImport(t *testing.T) {
	w := &recordingWriter{}
	report, err := NewPipeline(w).Import(context.Background(), strings.NewReader(sample), ImportOptions{Replace: true})
	require.NoError(t, err)

	assert.Equal(t, 4, report.Rows)
	assert.Equal(t, 4, report.Written)
	assert.Equal(t, 4, report.Groups)
	assert.Len(t, report.Hash, 64)
	assert.Equal(t, []db.ReplaceScope{{Brand: "Acme", GarmentType: "tops"}, {Brand: "Acme", GarmentType: "pants"}}, w.scopes)
}

func TestPipelineDryRun(t *testing.T) {
	w := &recordingWriter{}
	report, err := NewPipeline(w).Import(context.Background(), strings.NewReader(sample), ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Zero(t, report.Written)
	assert.Zero(t, w.calls)
}

func TestPipelineRejectsInvalidBatch(t *testing.T) {
	w := &recordingWriter{}
	in := "brand,garment,region,size,measurement,min,max,unit\nAcme,tops,US,M,bust,36,34,in\n"
	_, err := NewPipeline(w).Import(context.Background(), strings.NewReader(in), ImportOptions{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeImport))
	assert.Zero(t, w.calls)
}

type countingWriter struct {
	mu    sync.Mutex
	calls int
}

func (w *countingWriter) WriteRanges(_ context.Context, ranges []types.MeasurementRange, _ []db.ReplaceScope) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	return len(ranges), nil
}

func TestConcurrentImportsKeepTheirOwnStrictness(t *testing.T) {
	overlapping := `brand,garment,region,size,measurement,min,max,unit
Acme,tops,US,S,bust,32,35,inches
Acme,tops,US,M,bust,34,36,inches
`
	w := &countingWriter{}
	p := NewPipeline(w)

	const n = 20
	var wg sync.WaitGroup
	strictErrs := make([]error, n)
	lenientErrs := make([]error, n)
	for i := range n {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, strictErrs[i] = p.Import(context.Background(), strings.NewReader(overlapping), ImportOptions{Strict: true})
		}()
		go func() {
			defer wg.Done()
			_, lenientErrs[i] = p.Import(context.Background(), strings.NewReader(overlapping), ImportOptions{})
		}()
	}
	wg.Wait()

	for i := range n {
		assert.True(t, apperrors.IsType(strictErrs[i], apperrors.TypeImport), "strict import %d", i)
		assert.NoError(t, lenientErrs[i], "lenient import %d", i)
	}
	assert.Equal(t, n, w.calls)
}

func TestHashIgnoresRowOrder(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(sample), "\n")
	reversed := []string{lines[0]}
	for i := len(lines) - 1; i > 0; i-- {
		reversed = append(reversed, lines[i])
	}

	a, err := NewPipeline(&recordingWriter{}).Import(context.Background(), strings.NewReader(sample), ImportOptions{DryRun: true})
	require.NoError(t, err)
	b, err := NewPipeline(&recordingWriter{}).Import(context.Background(), strings.NewReader(strings.Join(reversed, "\n")), ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, a.Hash, b.Hash)
}

func TestImportExportRoundTripThroughStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := db.Open(ctx, db.DriverSQLite, filepath.Join(dir, "sizes.db"), 0)
	require.NoError(t, err)
	defer store.Close()

	_, err = NewPipeline(store).Import(ctx, strings.NewReader(sample), ImportOptions{})
	require.NoError(t, err)

	path := filepath.Join(dir, "ranges.csv.gz")
	out, err := CreateFile(path)
	require.NoError(t, err)
	n, err := Export(ctx, store, out)
	require.NoError(t, err)
	require.NoError(t, out.Close())
	assert.Equal(t, 4, n)

	in, err := OpenFile(path)
	require.NoError(t, err)
	defer in.Close()
	data, err := io.ReadAll(in)
	require.NoError(t, err)

	rows, err := ReadCSV(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for _, row := range rows {
		assert.Equal(t, "inches", row.Unit)
	}
	assert.Contains(t, string(data), "Acme,tops,UK,10,bust,34,36,inches")
}

func TestCentimeterBoundsResolveToUpperRange(t *testing.T) {
	ctx := context.Background()
	store, err := db.Open(ctx, db.DriverSQLite, filepath.Join(t.TempDir(), "sizes.db"), 0)
	require.NoError(t, err)
	defer store.Close()

	var b strings.Builder
	b.WriteString("brand,garment,region,size,measurement,min,max,unit\n")
	for _, region := range []string{"US", "UK", "EU"} {
		b.WriteString("Acme,tops," + region + ",S,bust,80,84,cm\n")
		b.WriteString("Acme,tops," + region + ",M,bust,84,88,cm\n")
		b.WriteString("Acme,tops," + region + ",L,bust,88,92,cm\n")
	}
	_, err = NewPipeline(store).Import(ctx, strings.NewReader(b.String()), ImportOptions{})
	require.NoError(t, err)

	res := resolver.New(catalog.NewCatalog(), resolver.WithSource(store, time.Second))
	tests := []struct {
		cm   float64
		want string
	}{
		{80, "S"},
		{83.99, "S"},
		{84, "M"},
		{86, "M"},
		{88, "L"},
		{91.99, "L"},
	}
	for _, tt := range tests {
		got, err := res.Resolve(ctx, types.SizeQuery{
			Brand: "Acme", GarmentType: "tops", MeasurementType: types.Bust,
			Value: tt.cm, Unit: types.UnitCentimeters,
		})
		require.NoError(t, err)
		assert.Equal(t, types.TierRemote, got.Source, "%v cm", tt.cm)
		assert.Equal(t, tt.want, got.USSize, "%v cm", tt.cm)
		assert.Equal(t, tt.want, got.EUSize, "%v cm", tt.cm)
	}
}
