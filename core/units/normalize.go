// Package units converts measurements between inches and centimeters.
// Inches are the canonical unit for every range comparison.
package units

import (
	"github.com/shopspring/decimal"

	"size-convert/core/types"
)

// CentimetersPerInch is the exact international inch
const CentimetersPerInch = 2.54

// Places is the precision, in inches, of every converted centimeter value.
// Stored bounds and queries round the same way so boundaries compare equal.
const Places = 4

var cmPerInch = decimal.NewFromFloat(CentimetersPerInch)

// ToInches expresses value, given in unit, in inches.
// It does not validate value; NaN and negative values pass through.
func ToInches(value float64, unit types.Unit) float64 {
	if unit == types.UnitCentimeters {
		return value / CentimetersPerInch
	}
	return value
}

// FromInches expresses an inch value in unit
func FromInches(inches float64, unit types.Unit) float64 {
	if unit == types.UnitCentimeters {
		return inches * CentimetersPerInch
	}
	return inches
}

// Normalize returns q's value in inches
func Normalize(q types.SizeQuery) float64 {
	return ToInches(q.Value, q.Unit)
}

// InchesDecimal is the decimal form of ToInches used for range comparison.
// Centimeter values are rounded to Places; inch values are kept exact.
func InchesDecimal(value decimal.Decimal, unit types.Unit) decimal.Decimal {
	if unit == types.UnitCentimeters {
		return value.Div(cmPerInch).Round(Places)
	}
	return value
}
