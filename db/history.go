package db

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"size-convert/core/types"
	apperrors "size-convert/internal/errors"
)

// DefaultHistoryLimit caps ListHistory when no limit is given
const DefaultHistoryLimit = 50

// HistoryEntry is one saved resolution
type HistoryEntry struct {
	ID        uuid.UUID        `json:"id"`
	UserID    string           `json:"userId"`
	Query     types.SizeQuery  `json:"query"`
	Result    types.SizeResult `json:"result"`
	CreatedAt time.Time        `json:"createdAt"`
}

type historyRow struct {
	ID              string  `db:"id"`
	UserID          string  `db:"user_id"`
	Brand           string  `db:"brand"`
	Garment         string  `db:"garment"`
	MeasurementType string  `db:"measurement_type"`
	Unit            string  `db:"unit"`
	Value           float64 `db:"value"`
	USSize          string  `db:"us_size"`
	UKSize          string  `db:"uk_size"`
	EUSize          string  `db:"eu_size"`
	Source          string  `db:"source"`
	CreatedAt       int64   `db:"created_at"`
}

func (r historyRow) entry() (HistoryEntry, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return HistoryEntry{}, apperrors.Internal("history id "+r.ID, err)
	}
	return HistoryEntry{
		ID:     id,
		UserID: r.UserID,
		Query: types.SizeQuery{
			Brand:           r.Brand,
			GarmentType:     r.Garment,
			MeasurementType: types.MeasurementType(r.MeasurementType),
			Value:           r.Value,
			Unit:            types.Unit(r.Unit),
		},
		Result: types.SizeResult{
			USSize: r.USSize,
			UKSize: r.UKSize,
			EUSize: r.EUSize,
			Source: types.Tier(r.Source),
		},
		CreatedAt: time.Unix(0, r.CreatedAt).UTC(),
	}, nil
}

// SaveHistory records a resolution for a user
func (s *Store) SaveHistory(ctx context.Context, userID string, q types.SizeQuery, res types.SizeResult) (HistoryEntry, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return HistoryEntry{}, apperrors.Input("user id is required")
	}

	now := time.Now().UTC()
	row := historyRow{
		ID:              uuid.NewString(),
		UserID:          userID,
		Brand:           q.Brand,
		Garment:         q.GarmentType,
		MeasurementType: string(q.MeasurementType),
		Unit:            string(q.Unit),
		Value:           q.Value,
		USSize:          res.USSize,
		UKSize:          res.UKSize,
		EUSize:          res.EUSize,
		Source:          string(res.Source),
		CreatedAt:       now.UnixNano(),
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO size_history
	(id, user_id, brand, garment, measurement_type, unit, value, us_size, uk_size, eu_size, source, created_at)
	VALUES (:id, :user_id, :brand, :garment, :measurement_type, :unit, :value, :us_size, :uk_size, :eu_size, :source, :created_at)`, row)
	if err != nil {
		return HistoryEntry{}, classify("save history", err)
	}
	return row.entry()
}

// ListHistory returns a user's entries, newest first
func (s *Store) ListHistory(ctx context.Context, userID string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	var rows []historyRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`SELECT id, user_id, brand, garment, measurement_type, unit,
	value, us_size, uk_size, eu_size, source, created_at
	FROM size_history WHERE user_id = ? ORDER BY created_at DESC, id LIMIT ?`), userID, limit)
	if err != nil {
		return nil, classify("list history", err)
	}

	entries := make([]HistoryEntry, 0, len(rows))
	for _, r := range rows {
		e, err := r.entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
