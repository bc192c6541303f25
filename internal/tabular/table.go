package tabular

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the shape of a cell value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindText
	KindNumber
)

// Cell is a single table value. The zero value is a missing cell.
type Cell struct {
	kind   Kind
	text   string
	number float64
}

// Missing returns an empty cell.
func Missing() Cell { return Cell{} }

// Text returns a text cell. Blank strings collapse to a missing cell.
func Text(value string) Cell {
	if strings.TrimSpace(value) == "" {
		return Cell{}
	}
	return Cell{kind: KindText, text: value}
}

// Number returns a numeric cell. NaN collapses to a missing cell.
func Number(value float64) Cell {
	if math.IsNaN(value) {
		return Cell{}
	}
	return Cell{kind: KindNumber, number: value}
}

// Kind reports the cell shape.
func (c Cell) Kind() Kind { return c.kind }

// IsMissing reports whether the cell carries no value.
func (c Cell) IsMissing() bool { return c.kind == KindMissing }

// Float returns the numeric payload for number cells.
func (c Cell) Float() (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return c.number, true
}

// String renders the cell as text. Missing cells render as "".
func (c Cell) String() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return strconv.FormatFloat(c.number, 'f', -1, 64)
	default:
		return ""
	}
}

// Table is an ordered set of named columns and rows of cells.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// New creates an empty table with the supplied header.
func New(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Append adds a row. Short rows are padded with missing cells and long rows
// are truncated to the header width.
func (t *Table) Append(cells ...Cell) {
	row := make([]Cell, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// AppendStrings adds a row of raw text values.
func (t *Table) AppendStrings(values ...string) {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Text(v)
	}
	t.Append(cells...)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Cell returns the value at row/col. Out of range lookups yield a missing cell.
func (t *Table) Cell(row, col int) Cell {
	if t == nil || row < 0 || row >= len(t.Rows) || col < 0 {
		return Cell{}
	}
	r := t.Rows[row]
	if col >= len(r) {
		return Cell{}
	}
	return r[col]
}
