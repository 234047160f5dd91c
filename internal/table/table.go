// Package table renders plain text tables with aligned columns.
package table

import (
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Alignment of a column's cells.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripAnsi removes ANSI color sequences so they do not count towards the
// column width.
func stripAnsi(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func width(s string) int {
	return utf8.RuneCountInString(stripAnsi(s))
}

// Table accumulates rows and writes them with Render.
type Table struct {
	w               io.Writer
	header          []string
	rows            [][]string
	columnAlignment []Alignment
	headerAlignment []Alignment
}

// NewTable returns an empty table that renders to w.
func NewTable(w io.Writer) *Table {
	return &Table{w: w}
}

func (t *Table) WithHeader(header []string) *Table {
	t.header = header
	return t
}

func (t *Table) WithColumnAlignment(alignment []Alignment) *Table {
	t.columnAlignment = alignment
	return t
}

func (t *Table) WithHeaderAlignment(alignment []Alignment) *Table {
	t.headerAlignment = alignment
	return t
}

func (t *Table) WithRows(rows [][]string) *Table {
	t.rows = append(t.rows, rows...)
	return t
}

// Append adds one row.
func (t *Table) Append(row []string) {
	t.rows = append(t.rows, row)
}

func (t *Table) columns() int {
	n := len(t.header)
	for _, row := range t.rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// Render writes the table.
func (t *Table) Render() error {
	n := t.columns()
	widths := make([]int, n)
	measure := func(row []string) {
		for i, cell := range row {
			if w := width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}

	var b strings.Builder
	separator := func() {
		b.WriteString("+")
		for _, w := range widths {
			b.WriteString(strings.Repeat("-", w+2))
			b.WriteString("+")
		}
		b.WriteString("\n")
	}
	line := func(row []string, alignment []Alignment) {
		b.WriteString("|")
		for i := 0; i < n; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			align := AlignLeft
			if i < len(alignment) {
				align = alignment[i]
			}
			b.WriteString(" ")
			b.WriteString(pad(cell, widths[i], align))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	separator()
	if len(t.header) > 0 {
		line(t.header, t.headerAlignment)
		separator()
	}
	for _, row := range t.rows {
		line(row, t.columnAlignment)
	}
	separator()
	_, err := io.WriteString(t.w, b.String())
	return err
}

func pad(s string, w int, align Alignment) string {
	gap := w - width(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}
