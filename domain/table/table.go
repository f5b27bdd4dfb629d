package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"paperkit/internal/errors"
)

// Kind is the inferred type of a column
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindString  Kind = "string"
)

// Table is a rectangular set of observations: rows are samples, columns are
// variables. Cells are stored as trimmed strings; an empty cell is missing.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
	kinds map[string]Kind
}

// New builds a table from a header row and data rows. Short rows are padded
// with empty cells and long rows are truncated to the header width.
func New(headers []string, rows [][]string) *Table {
	cols := make([]string, len(headers))
	for i, h := range headers {
		cols[i] = strings.TrimSpace(h)
	}

	normalized := make([][]string, 0, len(rows))
	for _, row := range rows {
		r := make([]string, len(cols))
		for j := range cols {
			if j < len(row) {
				r[j] = strings.TrimSpace(row[j])
			}
		}
		normalized = append(normalized, r)
	}

	t := &Table{Columns: cols, Rows: normalized}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	t.kinds = make(map[string]Kind, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
	for i, c := range t.Columns {
		t.kinds[c] = inferKind(t.Rows, i)
	}
}

func inferKind(rows [][]string, col int) Kind {
	seen := false
	for _, row := range rows {
		cell := row[col]
		if cell == "" {
			continue
		}
		if _, ok := parseFloat(cell); !ok {
			return KindString
		}
		seen = true
	}
	if !seen {
		return KindString
	}
	return KindNumeric
}

func parseFloat(cell string) (float64, bool) {
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Shape returns (rows, columns)
func (t *Table) Shape() (int, int) {
	return len(t.Rows), len(t.Columns)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Has reports whether the column exists
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Require fails with COLUMN_NOT_FOUND listing every missing column
func (t *Table) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return errors.ColumnNotFound(missing)
	}
	return nil
}

// Kind returns the inferred kind of a column
func (t *Table) Kind(col string) Kind {
	return t.kinds[col]
}

// NumericColumns returns the numeric columns in table order
func (t *Table) NumericColumns() []string {
	var out []string
	for _, c := range t.Columns {
		if t.kinds[c] == KindNumeric {
			out = append(out, c)
		}
	}
	return out
}

// Floats returns a column as float64 values; missing cells become NaN
func (t *Table) Floats(col string) ([]float64, error) {
	idx, ok := t.index[col]
	if !ok {
		return nil, errors.ColumnNotFound([]string{col})
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		cell := row[idx]
		if cell == "" {
			out[i] = math.NaN()
			continue
		}
		f, ok := parseFloat(cell)
		if !ok {
			return nil, errors.InvalidInput(fmt.Sprintf("column %q is not numeric (row %d: %q)", col, i+1, cell))
		}
		out[i] = f
	}
	return out, nil
}

// Strings returns a copy of a column's cells
func (t *Table) Strings(col string) ([]string, error) {
	idx, ok := t.index[col]
	if !ok {
		return nil, errors.ColumnNotFound([]string{col})
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Unique returns the distinct non-missing values of a column in first-seen order
func (t *Table) Unique(col string) ([]string, error) {
	values, err := t.Strings(col)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}

// Filter returns the rows whose column equals value
func (t *Table) Filter(col, value string) (*Table, error) {
	idx, ok := t.index[col]
	if !ok {
		return nil, errors.ColumnNotFound([]string{col})
	}
	var rows [][]string
	for _, row := range t.Rows {
		if row[idx] == value {
			rows = append(rows, row)
		}
	}
	return New(t.Columns, rows), nil
}

// Select returns a table with only the given columns
func (t *Table) Select(cols ...string) (*Table, error) {
	if err := t.Require(cols...); err != nil {
		return nil, err
	}
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]string, len(cols))
		for j, c := range cols {
			r[j] = row[t.index[c]]
		}
		rows[i] = r
	}
	return New(cols, rows), nil
}

// Head returns the first n rows
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n < 0 {
		n = 0
	}
	return New(t.Columns, t.Rows[:n])
}

// GroupMean averages value per distinct combination of keys. Groups appear in
// first-seen order; NaN values are ignored and an all-missing group yields an
// empty cell.
func (t *Table) GroupMean(keys []string, value string) (*Table, error) {
	if err := t.Require(append(append([]string{}, keys...), value)...); err != nil {
		return nil, err
	}
	values, err := t.Floats(value)
	if err != nil {
		return nil, err
	}

	type acc struct {
		key   []string
		sum   float64
		count int
	}
	var order []string
	groups := make(map[string]*acc)
	for i, row := range t.Rows {
		key := make([]string, len(keys))
		for j, k := range keys {
			key[j] = row[t.index[k]]
		}
		id := strings.Join(key, "\x00")
		g, ok := groups[id]
		if !ok {
			g = &acc{key: key}
			groups[id] = g
			order = append(order, id)
		}
		if !math.IsNaN(values[i]) {
			g.sum += values[i]
			g.count++
		}
	}

	rows := make([][]string, 0, len(order))
	for _, id := range order {
		g := groups[id]
		row := append([]string{}, g.key...)
		if g.count == 0 {
			row = append(row, "")
		} else {
			row = append(row, strconv.FormatFloat(g.sum/float64(g.count), 'g', -1, 64))
		}
		rows = append(rows, row)
	}
	return New(append(append([]string{}, keys...), value), rows), nil
}

// WriteCSV writes the table with a header row
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
