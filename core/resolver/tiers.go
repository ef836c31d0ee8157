package resolver

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"size-convert/core/catalog"
	"size-convert/core/types"
	"size-convert/core/units"
	apperrors "size-convert/internal/errors"
)

// RangeSource is the structured measurement-range data source.
// BrandID and GarmentID return a NOT_FOUND error for unknown names.
type RangeSource interface {
	BrandID(ctx context.Context, name string) (int64, error)
	GarmentID(ctx context.Context, name string) (int64, error)
	Ranges(ctx context.Context, brandID, garmentID int64, region types.Region, m types.MeasurementType, unit types.Unit) ([]types.MeasurementRange, error)
}

// normalizedQuery is a validated query with its value in inches
type normalizedQuery struct {
	types.SizeQuery
	inches float64
}

// decimal is the value compared against range bounds. It is rounded like
// imported centimeter bounds so a query on a boundary lands in the upper range.
func (q normalizedQuery) decimal() decimal.Decimal {
	return units.InchesDecimal(decimal.NewFromFloat(q.Value), q.Unit)
}

// remoteTier scans the data source, one concurrent query per region
type remoteTier struct {
	source  RangeSource
	timeout time.Duration
}

func (t remoteTier) lookup(ctx context.Context, q normalizedQuery) Outcome {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	brandID, err := t.source.BrandID(ctx, q.Brand)
	if err != nil {
		return failed(err)
	}
	garmentID, err := t.source.GarmentID(ctx, q.GarmentType)
	if err != nil {
		return failed(err)
	}

	v := q.decimal()
	var regions [3]RegionOutcome
	var g errgroup.Group
	for i, region := range types.Regions {
		g.Go(func() error {
			ranges, err := t.source.Ranges(ctx, brandID, garmentID, region, q.MeasurementType, types.UnitInches)
			if err != nil {
				regions[i] = RegionOutcome{Kind: SourceUnavailable}
				return err
			}
			regions[i] = scan(ranges, v)
			return nil
		})
	}
	return combine(regions, g.Wait())
}

// failed maps an id lookup error to a tier outcome
func failed(err error) Outcome {
	if apperrors.IsType(err, apperrors.TypeNotFound) {
		return Outcome{Kind: NotFound, Err: err}
	}
	return Outcome{Kind: SourceUnavailable, Err: err}
}

// catalogTier scans the static brand catalog. Garment type is not charted there.
type catalogTier struct {
	catalog catalog.Provider
}

func (t catalogTier) lookup(q normalizedQuery) Outcome {
	cat := t.catalog.Current()
	v := q.decimal()
	var regions [3]RegionOutcome
	for i, region := range types.Regions {
		ranges, ok := cat.Ranges(q.Brand, q.MeasurementType, region)
		if !ok {
			return Outcome{Kind: NotFound}
		}
		regions[i] = scan(ranges, v)
	}
	return combine(regions, nil)
}

