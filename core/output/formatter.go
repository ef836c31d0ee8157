// Package output provides output formatting for resolution results.
// This package produces human and machine-readable outputs.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"size-convert/core/types"
	"size-convert/core/ui"
	apperrors "size-convert/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown table
	FormatMarkdown Format = "markdown"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// Report is one resolution with the query that produced it
type Report struct {
	Query  types.SizeQuery  `json:"query"`
	Result types.SizeResult `json:"result"`
}

var formatters = map[Format]Formatter{}

// Register adds a formatter, replacing any with the same format
func Register(f Formatter) {
	formatters[f.Format()] = f
}

// Get returns the formatter for a format name
func Get(name string) (Formatter, error) {
	f, ok := formatters[Format(strings.ToLower(name))]
	if !ok {
		return nil, apperrors.Newf(apperrors.TypeInput, "unknown output format %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Names lists registered formats
func Names() []string {
	names := make([]string, 0, len(formatters))
	for f := range formatters {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(cliFormatter{})
	Register(jsonFormatter{})
	Register(markdownFormatter{})
}

type cliFormatter struct{}

func (cliFormatter) Format() Format { return FormatCLI }

func (cliFormatter) Render(w io.Writer, r *Report) error {
	uw := ui.NewWriter(w, false)
	q := r.Query
	uw.Header("Size Conversion")
	uw.Println("Measurement: %g %s %s", q.Value, q.Unit, q.MeasurementType)
	if q.Brand != "" {
		uw.Println("Brand:       %s %s", q.Brand, q.GarmentType)
	}
	uw.Println("")

	table := uw.NewTable("REGION", "SIZE")
	for _, region := range types.Regions {
		table.AddRow(string(region), r.Result.Label(region))
	}
	table.Render()
	uw.Println("")

	missed := false
	for _, region := range types.Regions {
		if r.Result.Has(region) {
			continue
		}
		if r.Result.Label(region) == types.Unavailable {
			uw.Error("%s sizes could not be read", region)
		} else {
			missed = true
		}
	}
	if missed {
		uw.Dim("%s means no %s size contains this measurement", types.NoMatch, r.Query.MeasurementType)
	}

	uw.Info("source: %s", r.Result.Source)
	if r.Result.Estimated() {
		uw.Warning("generic estimate, brand sizing may differ")
	}
	return nil
}

type jsonFormatter struct{}

func (jsonFormatter) Format() Format { return FormatJSON }

func (jsonFormatter) Render(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Result)
}

type markdownFormatter struct{}

func (markdownFormatter) Format() Format { return FormatMarkdown }

func (markdownFormatter) Render(w io.Writer, r *Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "**%g %s %s**", r.Query.Value, r.Query.Unit, r.Query.MeasurementType)
	if r.Query.Brand != "" {
		fmt.Fprintf(&b, " at %s (%s)", r.Query.Brand, r.Query.GarmentType)
	}
	b.WriteString("\n\n| Region | Size |\n|---|---|\n")
	for _, region := range types.Regions {
		fmt.Fprintf(&b, "| %s | %s |\n", region, r.Result.Label(region))
	}
	fmt.Fprintf(&b, "\n_Source: %s_\n", r.Result.Source)
	_, err := io.WriteString(w, b.String())
	return err
}
