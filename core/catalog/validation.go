// Package catalog - Catalog validation
// Ensures every chart is scannable in every region.
package catalog

import (
	"fmt"

	"size-convert/core/types"
)

// ValidationRule is a catalog validation rule
type ValidationRule func(*Brand) error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateAllRegions,
		validateIncreasingBounds,
		validateLabels,
	}
}

// Validate checks a catalog against validation rules
func (c *Catalog) Validate(rules []ValidationRule) []error {
	var errs []error
	for _, name := range c.Brands() {
		b := c.brands[name]
		for _, rule := range rules {
			if err := rule(b); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", b.Name, err))
			}
		}
	}
	return errs
}

// validateAllRegions ensures EU is charted as a region of its own like US and UK
func validateAllRegions(b *Brand) error {
	for m, chart := range b.Charts {
		for _, region := range types.Regions {
			if len(chart[region]) == 0 {
				return fmt.Errorf("%s chart has no %s sizes", m, region)
			}
		}
	}
	return nil
}

func validateIncreasingBounds(b *Brand) error {
	for m, chart := range b.Charts {
		for region, ranges := range chart {
			for i, r := range ranges {
				if !r.Min.LessThan(r.Max) {
					return fmt.Errorf("%s %s size %q: min %s is not below max %s", m, region, r.Label, r.Min, r.Max)
				}
				if i > 0 && r.Min.LessThan(ranges[i-1].Max) {
					return fmt.Errorf("%s %s size %q overlaps %q", m, region, r.Label, ranges[i-1].Label)
				}
			}
		}
	}
	return nil
}

func validateLabels(b *Brand) error {
	for m, chart := range b.Charts {
		for region, ranges := range chart {
			for _, r := range ranges {
				if r.Label == "" {
					return fmt.Errorf("%s %s has an empty size label", m, region)
				}
			}
		}
	}
	return nil
}
