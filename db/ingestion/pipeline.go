// Package ingestion - Measurement range ingestion pipeline
// Strictly separated from resolution: read → normalize → validate → store
package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"size-convert/core/types"
	"size-convert/db"
	apperrors "size-convert/internal/errors"
	"size-convert/internal/logging"
)

// RangeWriter persists normalized ranges
type RangeWriter interface {
	WriteRanges(ctx context.Context, ranges []types.MeasurementRange, replace []db.ReplaceScope) (int, error)
}

// RangeReader lists every stored range
type RangeReader interface {
	AllRanges(ctx context.Context) ([]types.MeasurementRange, error)
}

// ImportOptions controls an import run
type ImportOptions struct {
	// Replace deletes existing ranges for every (brand, garment) in the batch first
	Replace bool
	DryRun  bool
	// Strict fails the import on overlap warnings
	Strict bool
}

// ImportReport summarizes an import run
type ImportReport struct {
	Rows     int
	Written  int
	Groups   int
	Hash     string
	Warnings []string
	DryRun   bool
}

// Pipeline orchestrates the import flow
type Pipeline struct {
	writer RangeWriter
	log    *zap.Logger
}

// NewPipeline creates a new ingestion pipeline
func NewPipeline(writer RangeWriter) *Pipeline {
	return &Pipeline{
		writer: writer,
		log:    logging.Named("ingestion"),
	}
}

// Import reads CSV from r and writes it in one transaction
func (p *Pipeline) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportReport, error) {
	// Read
	raw, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}

	// Normalize
	ranges, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	// Validate
	result := NewValidator(opts.Strict).Validate(ranges)
	if !result.IsValid {
		return nil, apperrors.Newf(apperrors.TypeImport, "validation failed: %s", strings.Join(result.Errors, "; "))
	}

	report := &ImportReport{
		Rows:     len(raw),
		Groups:   result.Groups,
		Hash:     calculateHash(ranges),
		Warnings: result.Warnings,
		DryRun:   opts.DryRun,
	}
	for _, w := range result.Warnings {
		p.log.Warn("range warning", zap.String("detail", w))
	}
	if opts.DryRun {
		return report, nil
	}

	// Store
	var scopes []db.ReplaceScope
	if opts.Replace {
		scopes = replaceScopes(ranges)
	}
	n, err := p.writer.WriteRanges(ctx, ranges, scopes)
	if err != nil {
		return nil, fmt.Errorf("store failed: %w", err)
	}
	report.Written = n

	p.log.Info("ranges imported",
		zap.Int("rows", report.Rows),
		zap.Int("written", n),
		zap.Int("groups", report.Groups),
		zap.Bool("replace", opts.Replace),
		zap.String("hash", report.Hash))
	return report, nil
}

// Export writes every stored range to w as CSV
func Export(ctx context.Context, src RangeReader, w io.Writer) (int, error) {
	ranges, err := src.AllRanges(ctx)
	if err != nil {
		return 0, err
	}
	if err := WriteCSV(w, ranges); err != nil {
		return 0, apperrors.Internal("write CSV", err)
	}
	return len(ranges), nil
}

func replaceScopes(ranges []types.MeasurementRange) []db.ReplaceScope {
	seen := make(map[db.ReplaceScope]bool)
	var scopes []db.ReplaceScope
	for _, r := range ranges {
		s := db.ReplaceScope{Brand: r.Brand, GarmentType: r.GarmentType}
		if !seen[s] {
			seen[s] = true
			scopes = append(scopes, s)
		}
	}
	return scopes
}

// calculateHash computes a deterministic hash of ranges, independent of row order
func calculateHash(ranges []types.MeasurementRange) string {
	keys := make([]string, len(ranges))
	for i, r := range ranges {
		keys[i] = fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
			r.Brand, r.GarmentType, r.Region, r.MeasurementType, r.Label, r.Min.String(), r.Max.String())
	}
	sort.Strings(keys)

	hasher := sha256.New()
	for _, k := range keys {
		hasher.Write([]byte(k))
		hasher.Write([]byte{'\n'})
	}
	return hex.EncodeToString(hasher.Sum(nil))
}
