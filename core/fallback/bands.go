// Package fallback holds the brand-free size estimate used when no brand data applies.
// There is exactly one breakpoint table, in inches; centimeter queries are
// converted before lookup.
package fallback

import "size-convert/core/types"

// Labels is one rung of the generic size ladder, labeled for every region
type Labels struct {
	US, UK, EU string
}

// ladder is shared by all measurement types
var ladder = [5]Labels{
	{"XS", "6", "34"},
	{"S", "8", "36"},
	{"M", "10", "38"},
	{"L", "12", "40"},
	{"XL", "14", "42"},
}

// breakpoints are the exclusive upper bounds, in inches, of the first four rungs.
// Anything at or above the last breakpoint is XL.
var breakpoints = map[types.MeasurementType][4]float64{
	types.Bust:  {33, 35, 38, 41},
	types.Waist: {25, 27, 30, 33},
	types.Hips:  {35, 37, 40, 43},
}

// Estimate returns the ladder rung for an inch value. It never misses for a known
// measurement type; ok is false only for an unknown one.
func Estimate(m types.MeasurementType, inches float64) (Labels, bool) {
	bp, ok := breakpoints[m]
	if !ok {
		return Labels{}, false
	}
	for i, upper := range bp {
		if inches < upper {
			return ladder[i], true
		}
	}
	return ladder[len(ladder)-1], true
}

// Result wraps Estimate as a SizeResult tagged with the estimate tier
func Result(m types.MeasurementType, inches float64) (types.SizeResult, bool) {
	l, ok := Estimate(m, inches)
	if !ok {
		return types.SizeResult{}, false
	}
	return types.NewSizeResult(types.TierEstimate, [3]string{l.US, l.UK, l.EU}), true
}
