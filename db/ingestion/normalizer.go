package ingestion

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"size-convert/core/types"
	"size-convert/core/units"
	apperrors "size-convert/internal/errors"
)

// Normalize parses raw records and converts centimeter bounds to inches,
// the only unit the resolver queries. Every bad line is reported.
func Normalize(raw []RawRange) ([]types.MeasurementRange, error) {
	ranges := make([]types.MeasurementRange, 0, len(raw))
	var errs []error
	for _, rr := range raw {
		r, err := normalizeOne(rr)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", rr.Line, err))
			continue
		}
		ranges = append(ranges, r)
	}
	if len(errs) > 0 {
		return nil, apperrors.Import(fmt.Sprintf("%d invalid rows", len(errs)), errors.Join(errs...))
	}
	return ranges, nil
}

func normalizeOne(rr RawRange) (types.MeasurementRange, error) {
	if rr.Brand == "" || rr.Garment == "" {
		return types.MeasurementRange{}, errors.New("brand and garment are required")
	}
	region, err := types.ParseRegion(rr.Region)
	if err != nil {
		return types.MeasurementRange{}, err
	}
	m, err := types.ParseMeasurementType(rr.Measurement)
	if err != nil {
		return types.MeasurementRange{}, err
	}
	unit, err := types.ParseUnit(rr.Unit)
	if err != nil {
		return types.MeasurementRange{}, err
	}
	lo, err := decimal.NewFromString(rr.Min)
	if err != nil {
		return types.MeasurementRange{}, fmt.Errorf("min %q: %w", rr.Min, err)
	}
	hi, err := decimal.NewFromString(rr.Max)
	if err != nil {
		return types.MeasurementRange{}, fmt.Errorf("max %q: %w", rr.Max, err)
	}

	return types.MeasurementRange{
		Brand:           rr.Brand,
		GarmentType:     rr.Garment,
		Region:          region,
		Label:           rr.Size,
		MeasurementType: m,
		Min:             units.InchesDecimal(lo, unit),
		Max:             units.InchesDecimal(hi, unit),
		Unit:            types.UnitInches,
	}, nil
}
