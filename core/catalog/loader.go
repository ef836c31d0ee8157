package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/shopspring/decimal"

	"size-convert/core/types"
	apperrors "size-convert/internal/errors"
)

//go:embed brands.hcl
var bundledSource []byte

// fileSpec is the HCL schema of a catalog file
type fileSpec struct {
	Brands []brandSpec `hcl:"brand,block"`
}

type brandSpec struct {
	Name         string            `hcl:"name,label"`
	Measurements []measurementSpec `hcl:"measurement,block"`
}

type measurementSpec struct {
	Type    string       `hcl:"type,label"`
	Regions []regionSpec `hcl:"region,block"`
}

// regionSpec lists consecutive intervals: Labels[i] covers [Bounds[i], Bounds[i+1]).
type regionSpec struct {
	Code   string    `hcl:"code,label"`
	Bounds []float64 `hcl:"bounds"`
	Labels []string  `hcl:"labels"`
}

var bundled = sync.OnceValues(func() (*Catalog, error) {
	return Parse("brands.hcl", bundledSource)
})

// Bundled returns the catalog compiled into the binary
func Bundled() *Catalog {
	c, err := bundled()
	if err != nil {
		panic(fmt.Sprintf("bundled brand catalog is invalid: %v", err))
	}
	return c
}

// LoadFile parses a catalog file. The extension selects HCL native or JSON syntax.
func LoadFile(path string) (*Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Config("read catalog", err)
	}
	return Parse(path, src)
}

// Parse decodes and validates catalog source
func Parse(filename string, src []byte) (*Catalog, error) {
	var doc fileSpec
	if err := hclsimple.Decode(filename, src, nil, &doc); err != nil {
		return nil, apperrors.Config("decode catalog "+filename, err)
	}

	c := NewCatalog()
	for _, bs := range doc.Brands {
		if _, dup := c.brands[bs.Name]; dup {
			return nil, apperrors.Newf(apperrors.TypeConfig, "%s: brand %q declared twice", filename, bs.Name)
		}
		b, err := buildBrand(bs)
		if err != nil {
			return nil, apperrors.Config(filename, err)
		}
		c.Register(b)
	}

	if errs := c.Validate(DefaultValidationRules()); len(errs) > 0 {
		return nil, apperrors.Config(filename, errs[0]).WithContext("errors", len(errs))
	}
	return c, nil
}

func buildBrand(bs brandSpec) (*Brand, error) {
	b := &Brand{Name: bs.Name, Charts: make(map[types.MeasurementType]Chart)}
	for _, ms := range bs.Measurements {
		m, err := types.ParseMeasurementType(ms.Type)
		if err != nil {
			return nil, fmt.Errorf("brand %q: %w", bs.Name, err)
		}
		if _, dup := b.Charts[m]; dup {
			return nil, fmt.Errorf("brand %q: measurement %q declared twice", bs.Name, m)
		}
		chart := make(Chart)
		for _, rs := range ms.Regions {
			region, err := types.ParseRegion(rs.Code)
			if err != nil {
				return nil, fmt.Errorf("brand %q %s: %w", bs.Name, m, err)
			}
			if len(rs.Labels) != len(rs.Bounds)-1 {
				return nil, fmt.Errorf("brand %q %s %s: %d labels need %d bounds, got %d",
					bs.Name, m, region, len(rs.Labels), len(rs.Labels)+1, len(rs.Bounds))
			}
			ranges := make([]types.MeasurementRange, len(rs.Labels))
			for i, label := range rs.Labels {
				ranges[i] = types.MeasurementRange{
					Brand:           bs.Name,
					Region:          region,
					Label:           label,
					MeasurementType: m,
					Min:             decimal.NewFromFloat(rs.Bounds[i]),
					Max:             decimal.NewFromFloat(rs.Bounds[i+1]),
					Unit:            types.UnitInches,
				}
			}
			chart[region] = ranges
		}
		b.Charts[m] = chart
	}
	return b, nil
}
