package table

import (
	"strconv"
	"strings"
)

// Kind is the declared storage kind of a column.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindBool
)

// String returns the dtype-style label used in reports.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int64"
	case KindFloat:
		return "float64"
	case KindBool:
		return "bool"
	default:
		return "object"
	}
}

// IsNumeric reports whether the kind is any numeric subtype.
func (k Kind) IsNumeric() bool { return k == KindInt || k == KindFloat }

// Cell is a single value. Num is only meaningful for numeric columns.
type Cell struct {
	Raw     string
	Num     float64
	Missing bool
}

// Column is a named, typed sequence of cells.
type Column struct {
	Name  string
	Kind  Kind
	Cells []Cell
}

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.Missing {
			n++
		}
	}
	return n
}

// Floats returns the non-missing numeric values in row order.
func (c *Column) Floats() []float64 {
	if !c.Kind.IsNumeric() {
		return nil
	}
	out := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.Missing {
			continue
		}
		out = append(out, cell.Num)
	}
	return out
}

// Key returns the comparable representation of cell i. Numeric and bool
// cells compare by value so "1" equals "1.0", "-0" equals "0" and "true"
// equals "TRUE".
func (c *Column) Key(i int) string {
	cell := c.Cells[i]
	if cell.Missing {
		return "\x00NA"
	}
	switch {
	case c.Kind.IsNumeric():
		v := cell.Num
		if v == 0 {
			v = 0 // folds -0
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case c.Kind == KindBool:
		b, _ := parseBool(strings.TrimSpace(cell.Raw))
		return strconv.FormatBool(b)
	}
	return cell.Raw
}

// Table is an ordered set of equally long columns.
type Table struct {
	Name    string
	Columns []*Column
	rows    int
}

// Rows returns the row count shared by every column.
func (t *Table) Rows() int { return t.rows }

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Names returns column names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// NumericColumns returns numeric columns in table order.
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for _, c := range t.Columns {
		if c.Kind.IsNumeric() {
			out = append(out, c)
		}
	}
	return out
}

// TextColumns returns categorical (text) columns in table order.
func (t *Table) TextColumns() []*Column {
	var out []*Column
	for _, c := range t.Columns {
		if c.Kind == KindText {
			out = append(out, c)
		}
	}
	return out
}

// RowKey joins the keys of every column for row i.
func (t *Table) RowKey(i int) string {
	var b strings.Builder
	for j, c := range t.Columns {
		if j > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(c.Key(i))
	}
	return b.String()
}

// New builds a table from a header and raw records. Short records are
// padded with missing cells and long ones are truncated to the header width.
func New(name string, header []string, records [][]string, opt ParseOptions) *Table {
	names := NormalizeNames(header)
	t := &Table{Name: name, Columns: make([]*Column, len(names)), rows: len(records)}
	for j, n := range names {
		raw := make([]string, len(records))
		for i, rec := range records {
			if j < len(rec) {
				raw[i] = rec[j]
			}
		}
		t.Columns[j] = buildColumn(n, raw, opt)
	}
	return t
}
