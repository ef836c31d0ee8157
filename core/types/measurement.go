// Package types defines the core domain types for size conversion.
// These types are shared by the resolver tiers, the data source and the API.
package types

import (
	"golang.org/x/text/cases"

	apperrors "size-convert/internal/errors"
)

var fold = cases.Fold()

// Unit is a length unit a measurement can be given in
type Unit string

const (
	UnitInches      Unit = "inches"
	UnitCentimeters Unit = "cm"
)

// ParseUnit accepts the canonical names plus common spellings, case-insensitively
func ParseUnit(s string) (Unit, error) {
	switch fold.String(s) {
	case "inches", "inch", "in", `"`:
		return UnitInches, nil
	case "cm", "centimeters", "centimetres", "centimeter", "centimetre":
		return UnitCentimeters, nil
	}
	return "", apperrors.Newf(apperrors.TypeInput, "unknown unit %q", s)
}

// Valid reports whether u is a recognized unit
func (u Unit) Valid() bool {
	return u == UnitInches || u == UnitCentimeters
}

// MeasurementType is the body dimension being matched
type MeasurementType string

const (
	Bust  MeasurementType = "bust"
	Waist MeasurementType = "waist"
	Hips  MeasurementType = "hips"
)

// MeasurementTypes lists every measurement type in canonical order
var MeasurementTypes = []MeasurementType{Bust, Waist, Hips}

// ParseMeasurementType parses a measurement type. "hip" and "chest" are accepted as aliases.
func ParseMeasurementType(s string) (MeasurementType, error) {
	switch fold.String(s) {
	case "bust", "chest":
		return Bust, nil
	case "waist":
		return Waist, nil
	case "hips", "hip":
		return Hips, nil
	}
	return "", apperrors.Newf(apperrors.TypeInput, "unknown measurement type %q", s)
}

// Valid reports whether m is in the closed set
func (m MeasurementType) Valid() bool {
	return m == Bust || m == Waist || m == Hips
}

// Region is a regional size-labeling system
type Region string

const (
	RegionUS Region = "US"
	RegionUK Region = "UK"
	RegionEU Region = "EU"
)

// Regions lists every region in result order
var Regions = []Region{RegionUS, RegionUK, RegionEU}

// ParseRegion parses a region code case-insensitively
func ParseRegion(s string) (Region, error) {
	switch fold.String(s) {
	case "us":
		return RegionUS, nil
	case "uk", "gb":
		return RegionUK, nil
	case "eu":
		return RegionEU, nil
	}
	return "", apperrors.Newf(apperrors.TypeInput, "unknown region %q", s)
}

// Valid reports whether r is in the closed set
func (r Region) Valid() bool {
	return r == RegionUS || r == RegionUK || r == RegionEU
}

