// Package catalog - Static brand size catalog
// A small hand-authored table of per-brand size intervals that backs the
// offline resolution tier. It is read-only once built.
package catalog

import (
	"sort"

	"size-convert/core/types"
)

// Chart is one brand's intervals for one measurement type, per region
type Chart map[types.Region][]types.MeasurementRange

// Brand is a catalog entry
type Brand struct {
	Name   string
	Charts map[types.MeasurementType]Chart
}

// Catalog is an immutable set of brands keyed by exact name
type Catalog struct {
	brands map[string]*Brand
}

// Provider returns the catalog to use for a lookup. A *Catalog is its own provider;
// a Watcher swaps catalogs underneath callers.
type Provider interface {
	Current() *Catalog
}

// NewCatalog creates a new catalog
func NewCatalog() *Catalog {
	return &Catalog{
		brands: make(map[string]*Brand),
	}
}

// Current implements Provider
func (c *Catalog) Current() *Catalog {
	return c
}

// Register adds or replaces a brand
func (c *Catalog) Register(b *Brand) {
	c.brands[b.Name] = b
}

// Brand returns an entry by exact name
func (c *Catalog) Brand(name string) (*Brand, bool) {
	b, ok := c.brands[name]
	return b, ok
}

// Ranges returns the intervals for a brand, measurement type and region.
// ok is false when the brand has no chart for the measurement type.
func (c *Catalog) Ranges(brand string, m types.MeasurementType, region types.Region) ([]types.MeasurementRange, bool) {
	b, ok := c.brands[brand]
	if !ok {
		return nil, false
	}
	chart, ok := b.Charts[m]
	if !ok {
		return nil, false
	}
	return chart[region], true
}

// Brands returns brand names in sorted order
func (c *Catalog) Brands() []string {
	names := make([]string, 0, len(c.brands))
	for name := range c.brands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge returns a new catalog with every brand of c, replaced or extended by overlay.
// Neither input is modified.
func (c *Catalog) Merge(overlay *Catalog) *Catalog {
	merged := NewCatalog()
	for name, b := range c.brands {
		merged.brands[name] = b
	}
	if overlay != nil {
		for name, b := range overlay.brands {
			merged.brands[name] = b
		}
	}
	return merged
}

// Stats returns catalog statistics
func (c *Catalog) Stats() Stats {
	stats := Stats{
		ByMeasurement: make(map[types.MeasurementType]int),
	}
	for _, b := range c.brands {
		stats.Brands++
		for m, chart := range b.Charts {
			stats.ByMeasurement[m]++
			for _, ranges := range chart {
				stats.Ranges += len(ranges)
			}
		}
	}
	return stats
}

// Stats holds catalog statistics
type Stats struct {
	Brands        int
	Ranges        int
	ByMeasurement map[types.MeasurementType]int
}
