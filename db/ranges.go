package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"size-convert/core/types"
	apperrors "size-convert/internal/errors"
)

const rangeColumns = `r.id, b.name AS brand, g.name AS garment, r.region, r.size_label,
	r.measurement_type, r.min_value, r.max_value, r.unit`

const rangeJoins = `FROM measurement_ranges r
	JOIN brands b ON b.id = r.brand_id
	JOIN garment_types g ON g.id = r.garment_id`

// BrandID resolves a brand name
func (s *Store) BrandID(ctx context.Context, name string) (int64, error) {
	return s.lookupID(ctx, "brands", "brand", name)
}

// GarmentID resolves a garment type name
func (s *Store) GarmentID(ctx context.Context, name string) (int64, error) {
	return s.lookupID(ctx, "garment_types", "garment", name)
}

func (s *Store) lookupID(ctx context.Context, table, kind, name string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, s.db.Rebind("SELECT id FROM "+table+" WHERE name = ?"), name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperrors.NotFound(kind, name)
	}
	if err != nil {
		return 0, classify(kind+" lookup", err)
	}
	return id, nil
}

// Ranges returns the ranges of one brand, garment, region, measurement type and unit,
// lowest interval first
func (s *Store) Ranges(ctx context.Context, brandID, garmentID int64, region types.Region, m types.MeasurementType, unit types.Unit) ([]types.MeasurementRange, error) {
	query := s.db.Rebind(`SELECT ` + rangeColumns + ` ` + rangeJoins + `
	WHERE r.brand_id = ? AND r.garment_id = ? AND r.region = ? AND r.measurement_type = ? AND r.unit = ?
	ORDER BY r.min_value, r.id`)

	var ranges []types.MeasurementRange
	if err := s.db.SelectContext(ctx, &ranges, query, brandID, garmentID, string(region), string(m), string(unit)); err != nil {
		return nil, classify("ranges query", err)
	}
	return ranges, nil
}

// AllRanges returns every stored range in export order
func (s *Store) AllRanges(ctx context.Context) ([]types.MeasurementRange, error) {
	query := `SELECT ` + rangeColumns + ` ` + rangeJoins + `
	ORDER BY b.name, g.name, r.measurement_type, r.region, r.min_value, r.id`

	var ranges []types.MeasurementRange
	if err := s.db.SelectContext(ctx, &ranges, query); err != nil {
		return nil, classify("ranges export", err)
	}
	return ranges, nil
}

// ListBrands returns brand names in alphabetical order
func (s *Store) ListBrands(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, "SELECT name FROM brands ORDER BY name"); err != nil {
		return nil, classify("brand list", err)
	}
	return names, nil
}

// ReplaceScope identifies the ranges of one brand and garment type
type ReplaceScope struct {
	Brand       string
	GarmentType string
}

// WriteRanges stores ranges in one transaction, creating brands and garment
// types as needed. Ranges already stored for every scope in replace are
// deleted first. It returns the number of ranges inserted.
func (s *Store) WriteRanges(ctx context.Context, ranges []types.MeasurementRange, replace []ReplaceScope) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, classify("begin import", err)
	}
	defer tx.Rollback()

	ids := &idCache{tx: tx, store: s, brands: map[string]int64{}, garments: map[string]int64{}}

	for _, scope := range replace {
		brandID, err := ids.brand(ctx, scope.Brand)
		if err != nil {
			return 0, err
		}
		garmentID, err := ids.garment(ctx, scope.GarmentType)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM measurement_ranges WHERE brand_id = ? AND garment_id = ?`), brandID, garmentID); err != nil {
			return 0, classify("delete ranges", err)
		}
	}

	insert := tx.Rebind(`INSERT INTO measurement_ranges
	(brand_id, garment_id, region, size_label, measurement_type, min_value, max_value, unit)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, r := range ranges {
		brandID, err := ids.brand(ctx, r.Brand)
		if err != nil {
			return 0, err
		}
		garmentID, err := ids.garment(ctx, r.GarmentType)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, insert, brandID, garmentID, string(r.Region), r.Label,
			string(r.MeasurementType), r.Min, r.Max, string(r.Unit)); err != nil {
			return 0, classify("insert range "+r.String(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, classify("commit import", err)
	}
	return len(ranges), nil
}

// idCache resolves or creates brand and garment ids inside one transaction
type idCache struct {
	tx       *sqlx.Tx
	store    *Store
	brands   map[string]int64
	garments map[string]int64
}

func (c *idCache) brand(ctx context.Context, name string) (int64, error) {
	return c.ensure(ctx, c.brands, "brands", name)
}

func (c *idCache) garment(ctx context.Context, name string) (int64, error) {
	return c.ensure(ctx, c.garments, "garment_types", name)
}

func (c *idCache) ensure(ctx context.Context, cache map[string]int64, table, name string) (int64, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}

	var id int64
	err := c.tx.GetContext(ctx, &id, c.tx.Rebind("SELECT id FROM "+table+" WHERE name = ?"), name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id, err = c.store.insertName(ctx, c.tx, table, name)
		if err != nil {
			return 0, err
		}
	case err != nil:
		return 0, classify("lookup "+table, err)
	}
	cache[name] = id
	return id, nil
}

// insertName inserts into a (id, name) table and returns the new id.
// postgres has no LastInsertId, so it uses RETURNING.
func (s *Store) insertName(ctx context.Context, tx *sqlx.Tx, table, name string) (int64, error) {
	query := "INSERT INTO " + table + " (name) VALUES (?)"
	if s.driver == DriverPostgres {
		var id int64
		if err := tx.GetContext(ctx, &id, tx.Rebind(query+" RETURNING id"), name); err != nil {
			return 0, classify("insert "+table, err)
		}
		return id, nil
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(query), name)
	if err != nil {
		return 0, classify("insert "+table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, classify("insert "+table, err)
	}
	return id, nil
}
