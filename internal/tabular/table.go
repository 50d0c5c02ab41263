// Package tabular holds the in-memory representation of an uploaded
// dataset: an ordered list of named columns over ordered rows of string
// cells, plus the filter/window/column-select transformations the analysis
// view applies to it.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Table is an ordered rows × named columns dataset. Column order and row
// order are preserved through every transformation.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NumRows returns the number of data rows
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// NumColumns returns the number of columns
func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// ColumnIndex returns the position of a named column, or -1 when absent
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// cell returns the value at (row, col), tolerating ragged rows
func (t *Table) cell(row, col int) string {
	if col < len(t.Rows[row]) {
		return t.Rows[row][col]
	}
	return ""
}

// FilterContains returns the rows whose value in the named column contains
// the substring, case-insensitively. An empty substring returns a copy of
// the full table.
func (t *Table) FilterContains(column, substring string) (*Table, error) {
	if substring == "" {
		return &Table{Columns: t.Columns, Rows: t.Rows}, nil
	}

	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("unknown column: %s", column)
	}

	needle := strings.ToLower(substring)
	out := &Table{Columns: t.Columns}
	for i := range t.Rows {
		if strings.Contains(strings.ToLower(t.cell(i, idx)), needle) {
			out.Rows = append(out.Rows, t.Rows[i])
		}
	}
	return out, nil
}

// Window returns a contiguous slice of n rows starting at offset. The
// offset is clamped to [0, max(0, rows-n)]; when the table holds fewer
// than n rows the window is empty, never an error.
func (t *Table) Window(offset, n int) *Table {
	out := &Table{Columns: t.Columns}
	if n <= 0 || len(t.Rows) < n {
		return out
	}

	maxStart := len(t.Rows) - n
	if offset < 0 {
		offset = 0
	}
	if offset > maxStart {
		offset = maxStart
	}

	out.Rows = t.Rows[offset : offset+n]
	return out
}

// SelectColumns returns a copy holding only the named columns, in the order
// given. An empty selection keeps every column.
func (t *Table) SelectColumns(columns []string) (*Table, error) {
	if len(columns) == 0 {
		return &Table{Columns: t.Columns, Rows: t.Rows}, nil
	}

	indices := make([]int, len(columns))
	for i, c := range columns {
		idx := t.ColumnIndex(c)
		if idx < 0 {
			return nil, fmt.Errorf("unknown column: %s", c)
		}
		indices[i] = idx
	}

	out := &Table{Columns: append([]string(nil), columns...)}
	for i := range t.Rows {
		row := make([]string, len(indices))
		for j, idx := range indices {
			row[j] = t.cell(i, idx)
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// Column returns every value of the named column in row order
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("unknown column: %s", name)
	}
	out := make([]string, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.cell(i, idx)
	}
	return out, nil
}

// NumericColumn parses the named column as float64 values. Empty cells are
// skipped; any other unparsable cell is an error naming the column.
func (t *Table) NumericColumn(name string) ([]float64, error) {
	values, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s is not numeric: %q", name, v)
		}
		out = append(out, f)
	}
	return out, nil
}

// WriteCSV writes the table as CSV with a header row
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for i := range t.Rows {
		row := make([]string, len(t.Columns))
		for j := range t.Columns {
			row[j] = t.cell(i, j)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
