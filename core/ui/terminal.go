// Package ui - Terminal user interface
// CLI output with tables and colors.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Colors for terminal output
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
)

// Writer is the UI output destination
type Writer struct {
	out     io.Writer
	noColor bool
}

// NewWriter creates a UI writer. Color is disabled when out is not a terminal.
func NewWriter(out io.Writer, noColor bool) *Writer {
	if out == nil {
		out = os.Stdout
	}
	if f, ok := out.(*os.File); !ok || !isTerminal(f) {
		noColor = true
	}
	return &Writer{out: out, noColor: noColor}
}

func isTerminal(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// color applies color if enabled
func (w *Writer) color(c, text string) string {
	if w.noColor {
		return text
	}
	return c + text + Reset
}

// Println writes formatted text with newline
func (w *Writer) Println(format string, args ...any) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Header prints a section header
func (w *Writer) Header(title string) {
	fmt.Fprintln(w.out, w.color(Bold+Cyan, "━━━ "+title+" ━━━"))
}

// Success prints a success message
func (w *Writer) Success(format string, args ...any) {
	fmt.Fprintln(w.out, w.color(Green, "✓ ")+fmt.Sprintf(format, args...))
}

// Warning prints a warning
func (w *Writer) Warning(format string, args ...any) {
	fmt.Fprintln(w.out, w.color(Yellow, "⚠ ")+fmt.Sprintf(format, args...))
}

// Error prints an error message
func (w *Writer) Error(format string, args ...any) {
	fmt.Fprintln(w.out, w.color(Red, "✗ ")+fmt.Sprintf(format, args...))
}

// Info prints an info message
func (w *Writer) Info(format string, args ...any) {
	fmt.Fprintln(w.out, w.color(Blue, "ℹ ")+fmt.Sprintf(format, args...))
}

// Dim prints de-emphasized text
func (w *Writer) Dim(format string, args ...any) {
	fmt.Fprintln(w.out, w.color(Dim, fmt.Sprintf(format, args...)))
}

// Table renders a table
type Table struct {
	w       *Writer
	headers []string
	rows    [][]string
	widths  []int
}

// NewTable creates a table
func (w *Writer) NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	return &Table{
		w:       w,
		headers: headers,
		widths:  widths,
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	// Pad or truncate cells to match header count
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
		if len(row[i]) > t.widths[i] {
			t.widths[i] = len(row[i])
		}
	}
	t.rows = append(t.rows, row)
}

// Render prints the table
func (t *Table) Render() {
	line := func(cells []string) string {
		padded := make([]string, len(cells))
		for i, c := range cells {
			padded[i] = c + strings.Repeat(" ", t.widths[i]-len(c))
		}
		return strings.TrimRight(strings.Join(padded, " │ "), " ")
	}

	fmt.Fprintln(t.w.out, t.w.color(Bold, line(t.headers)))

	seps := make([]string, len(t.widths))
	for i, w := range t.widths {
		seps[i] = strings.Repeat("─", w)
	}
	fmt.Fprintln(t.w.out, strings.Join(seps, "─┼─"))

	for _, row := range t.rows {
		fmt.Fprintln(t.w.out, line(row))
	}
}
