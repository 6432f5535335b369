package calibration

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"phantomqa/pkg/errkind"
)

// Column names used by the calibration sheets.
const (
	ColTemperature   = "Temperature (C)"
	ColConcentration = "Concentration (mM)"
	ColThermometer   = "Measured Transition Temperature (C)"
)

// Table is one sheet of calibration data: a header and string cells, one row
// per solution. Numeric columns are parsed when read.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// NewTable builds a table, padding short rows to the header width.
func NewTable(name string, header []string, rows [][]string) *Table {
	t := &Table{Name: name, Header: append([]string(nil), header...)}
	for _, r := range rows {
		row := make([]string, len(header))
		copy(row, r)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	return NewTable(t.Name, t.Header, t.Rows)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

func (t *Table) columnIndex(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	return -1, errors.Wrapf(errkind.ErrLookup, "sheet %s has no column %q (columns: %s)",
		t.Name, name, strings.Join(t.Header, ", "))
}

// Column returns the raw cells of a column in row order.
func (t *Table) Column(name string) ([]string, error) {
	idx, err := t.columnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out, nil
}

// Floats returns a column parsed as numbers. Blank cells become NaN.
func (t *Table) Floats(name string) ([]float64, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, errors.Wrapf(errkind.ErrInvalidArgument, "sheet %s row %d column %q: %q is not a number",
				t.Name, i, name, c)
		}
		out[i] = v
	}
	return out, nil
}

// Where returns the values of column whose key column equals key, in row order.
func (t *Table) Where(key string, match float64, column string) ([]float64, error) {
	keys, err := t.Floats(key)
	if err != nil {
		return nil, err
	}
	vals, err := t.Floats(column)
	if err != nil {
		return nil, err
	}
	out := []float64{}
	for i, k := range keys {
		if k == match {
			out = append(out, vals[i])
		}
	}
	return out, nil
}
