package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"size-convert/core/types"
	apperrors "size-convert/internal/errors"
)

// Columns is the CSV header, in export order
var Columns = []string{"brand", "garment", "region", "size", "measurement", "min", "max", "unit"}

// RawRange is one CSV record before parsing
type RawRange struct {
	Line        int
	Brand       string
	Garment     string
	Region      string
	Size        string
	Measurement string
	Min         string
	Max         string
	Unit        string
}

// ReadCSV reads records by header name; column order is free and extra columns are ignored.
func ReadCSV(r io.Reader) ([]RawRange, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.Import("empty CSV", err)
	}
	if err != nil {
		return nil, apperrors.Import("read CSV header", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			return nil, apperrors.Newf(apperrors.TypeImport, "CSV header is missing column %q", col)
		}
	}
	cr.FieldsPerRecord = len(header)

	var rows []RawRange
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.Import("read CSV", err)
		}
		line, _ := cr.FieldPos(0)
		field := func(col string) string { return strings.TrimSpace(rec[index[col]]) }
		rows = append(rows, RawRange{
			Line:        line,
			Brand:       field("brand"),
			Garment:     field("garment"),
			Region:      field("region"),
			Size:        field("size"),
			Measurement: field("measurement"),
			Min:         field("min"),
			Max:         field("max"),
			Unit:        field("unit"),
		})
	}
	return rows, nil
}

// WriteCSV writes ranges with a header row
func WriteCSV(w io.Writer, ranges []types.MeasurementRange) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range ranges {
		rec := []string{
			r.Brand,
			r.GarmentType,
			string(r.Region),
			r.Label,
			string(r.MeasurementType),
			r.Min.String(),
			r.Max.String(),
			string(r.Unit),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// OpenFile opens path for reading, decompressing .gz files. "-" is stdin.
func OpenFile(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gzr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open gzip %s: %w", path, err)
	}
	return &gzipReadCloser{Reader: gzr, file: f}, nil
}

// CreateFile creates path for writing, compressing .gz files. "-" is stdout.
func CreateFile(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	return &gzipWriteCloser{Writer: gzip.NewWriter(f), file: f}, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Close() error {
	return errors.Join(g.Reader.Close(), g.file.Close())
}

type gzipWriteCloser struct {
	*gzip.Writer
	file *os.File
}

func (g *gzipWriteCloser) Close() error {
	return errors.Join(g.Writer.Close(), g.file.Close())
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
