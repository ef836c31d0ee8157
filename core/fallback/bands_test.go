package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"size-convert/core/types"
	"size-convert/core/units"
)

func TestEstimateBust(t *testing.T) {
	tests := []struct {
		inches float64
		want   Labels
	}{
		{20, Labels{"XS", "6", "34"}},
		{33, Labels{"S", "8", "36"}},
		{34.9, Labels{"S", "8", "36"}},
		{35, Labels{"M", "10", "38"}},
		{37.99, Labels{"M", "10", "38"}},
		{38, Labels{"L", "12", "40"}},
		{41, Labels{"XL", "14", "42"}},
		{86, Labels{"XL", "14", "42"}},
	}
	for _, tt := range tests {
		got, ok := Estimate(types.Bust, tt.inches)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "bust %v in", tt.inches)
	}
}

func TestEstimateWaistAndHips(t *testing.T) {
	got, _ := Estimate(types.Waist, 28)
	assert.Equal(t, "M", got.US)
	got, _ = Estimate(types.Hips, 28)
	assert.Equal(t, "XS", got.US)
	got, _ = Estimate(types.Hips, 42)
	assert.Equal(t, "L", got.US)
}

func TestEstimateCentimetersUseSameTable(t *testing.T) {
	// 92 cm is 36.2 in
	got, ok := Estimate(types.Bust, units.ToInches(92, types.UnitCentimeters))
	require.True(t, ok)
	assert.Equal(t, "M", got.US)
}

func TestResultNeverMisses(t *testing.T) {
	for _, m := range types.MeasurementTypes {
		for _, v := range []float64{0.01, 30, 1e6} {
			res, ok := Result(m, v)
			require.True(t, ok)
			assert.True(t, res.Estimated())
			for _, r := range types.Regions {
				assert.True(t, res.Has(r))
			}
		}
	}

	_, ok := Result(types.MeasurementType("inseam"), 30)
	assert.False(t, ok)
}

func TestBreakpointsAreExclusiveUpperBounds(t *testing.T) {
	for _, m := range types.MeasurementTypes {
		bp := breakpoints[m]
		for i, upper := range bp {
			below, _ := Estimate(m, upper-0.01)
			at, _ := Estimate(m, upper)
			assert.Equal(t, ladder[i], below, "%s just below %v", m, upper)
			assert.Equal(t, ladder[i+1], at, "%s at %v", m, upper)
		}
	}
}

func TestEightySixInBothUnits(t *testing.T) {
	res, ok := Result(types.Bust, units.ToInches(86, types.UnitInches))
	require.True(t, ok)
	assert.Equal(t, types.SizeResult{USSize: "XL", UKSize: "14", EUSize: "42", Source: types.TierEstimate}, res)

	res, ok = Result(types.Bust, units.ToInches(86, types.UnitCentimeters))
	require.True(t, ok)
	assert.Equal(t, types.SizeResult{USSize: "S", UKSize: "8", EUSize: "36", Source: types.TierEstimate}, res)
}
