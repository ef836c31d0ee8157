// Package ingestion - Range ingestion governance and validation
package ingestion

import (
	"fmt"
	"sort"

	"size-convert/core/types"
)

// ValidationResult contains validation outcome
type ValidationResult struct {
	IsValid  bool
	Total    int
	Groups   int
	Errors   []string
	Warnings []string
}

// Validator checks normalized ranges before they are written
type Validator struct {
	// RejectOverlap reports overlapping ranges as errors instead of warnings
	RejectOverlap bool
}

// NewValidator creates a validator. Strict validators reject overlaps.
func NewValidator(strict bool) *Validator {
	return &Validator{RejectOverlap: strict}
}

type groupKey struct {
	brand, garment string
	region         types.Region
	measurement    types.MeasurementType
}

func (k groupKey) String() string {
	return fmt.Sprintf("%s/%s %s %s", k.brand, k.garment, k.region, k.measurement)
}

// Validate enforces per-range invariants and reports overlaps within each
// (brand, garment, region, measurement) group
func (v *Validator) Validate(ranges []types.MeasurementRange) *ValidationResult {
	result := &ValidationResult{IsValid: true, Total: len(ranges)}

	groups := make(map[groupKey][]types.MeasurementRange)
	for _, r := range ranges {
		switch {
		case r.Label == "":
			result.Errors = append(result.Errors, fmt.Sprintf("%s: empty size label", r))
		case r.Min.IsNegative():
			result.Errors = append(result.Errors, fmt.Sprintf("%s: negative minimum", r))
		case r.Min.GreaterThan(r.Max):
			result.Errors = append(result.Errors, fmt.Sprintf("%s: minimum above maximum", r))
		case r.Min.Equal(r.Max):
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: empty interval never matches", r))
		}
		k := groupKey{r.Brand, r.GarmentType, r.Region, r.MeasurementType}
		groups[k] = append(groups[k], r)
	}
	result.Groups = len(groups)

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	for _, k := range keys {
		g := groups[k]
		sort.SliceStable(g, func(i, j int) bool { return g[i].Min.LessThan(g[j].Min) })
		for i := 1; i < len(g); i++ {
			if g[i].Min.LessThan(g[i-1].Max) {
				msg := fmt.Sprintf("%s: %q [%s, %s) overlaps %q [%s, %s)",
					k, g[i].Label, g[i].Min, g[i].Max, g[i-1].Label, g[i-1].Min, g[i-1].Max)
				if v.RejectOverlap {
					result.Errors = append(result.Errors, msg)
				} else {
					result.Warnings = append(result.Warnings, msg)
				}
			}
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}
