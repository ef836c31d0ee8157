package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NoMatch is the label reported for a region when no range contained the measurement
const NoMatch = "N/A"

// Unavailable is the label reported for a region whose ranges could not be read.
// A region is never reported as NoMatch unless its chart was actually scanned.
const Unavailable = "unavailable"

// MeasurementRange is one labeled size's interval for a
// (brand, garment type, region, measurement type) combination.
// The interval is half-open: Min <= v < Max.
type MeasurementRange struct {
	ID              int64           `json:"id,omitempty" db:"id"`
	Brand           string          `json:"brand" db:"brand"`
	GarmentType     string          `json:"garmentType" db:"garment"`
	Region          Region          `json:"region" db:"region"`
	Label           string          `json:"label" db:"size_label"`
	MeasurementType MeasurementType `json:"measurementType" db:"measurement_type"`
	Min             decimal.Decimal `json:"min" db:"min_value"`
	Max             decimal.Decimal `json:"max" db:"max_value"`
	Unit            Unit            `json:"unit" db:"unit"`
}

// Contains reports whether v falls inside the range
func (r MeasurementRange) Contains(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(r.Min) && v.LessThan(r.Max)
}

// String returns a compact description for logs
func (r MeasurementRange) String() string {
	return fmt.Sprintf("%s %s/%s %s %s [%s, %s) %s",
		r.Brand, r.GarmentType, r.Region, r.MeasurementType, r.Label, r.Min, r.Max, r.Unit)
}

// SizeQuery is the resolver's input
type SizeQuery struct {
	Brand           string          `json:"brand"`
	GarmentType     string          `json:"garmentType"`
	MeasurementType MeasurementType `json:"measurementType"`
	Value           float64         `json:"value"`
	Unit            Unit            `json:"unit"`
}

// Tier identifies which resolution level produced a result
type Tier string

const (
	// TierRemote is the data source interval scan
	TierRemote Tier = "remote"
	// TierCatalog is the bundled static brand catalog
	TierCatalog Tier = "catalog"
	// TierEstimate is the generic heuristic band lookup
	TierEstimate Tier = "estimate"
)

// SizeResult is the resolver's output. All fields are set together.
type SizeResult struct {
	USSize string `json:"usSize"`
	UKSize string `json:"ukSize"`
	EUSize string `json:"euSize"`
	Source Tier   `json:"source"`
}

// Label returns the label for a region
func (r SizeResult) Label(region Region) string {
	switch region {
	case RegionUS:
		return r.USSize
	case RegionUK:
		return r.UKSize
	case RegionEU:
		return r.EUSize
	}
	return NoMatch
}

// Has reports whether a region matched
func (r SizeResult) Has(region Region) bool {
	l := r.Label(region)
	return l != "" && l != NoMatch && l != Unavailable
}

// Estimated reports whether the result came from the heuristic tier rather than brand data
func (r SizeResult) Estimated() bool {
	return r.Source == TierEstimate
}

// NewSizeResult builds a result from per-region labels in Regions order.
// Empty labels become NoMatch; callers pass Unavailable explicitly.
func NewSizeResult(source Tier, labels [3]string) SizeResult {
	for i, l := range labels {
		if l == "" {
			labels[i] = NoMatch
		}
	}
	return SizeResult{
		USSize: labels[0],
		UKSize: labels[1],
		EUSize: labels[2],
		Source: source,
	}
}
