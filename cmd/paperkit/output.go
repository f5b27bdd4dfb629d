package main

import (
	"fmt"
	"io"
	"math"

	"paperkit/adapters/stats"
	"paperkit/domain/table"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer, header ...interface{}) prettytable.Writer {
	t := prettytable.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(prettytable.StyleLight)
	if len(header) > 0 {
		t.AppendHeader(prettytable.Row(header))
	}
	return t
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4f", v)
}

func renderSummary(w io.Writer, s *stats.Summary) {
	t := newTable(w, "Statistic", "Value")
	t.AppendRows([]prettytable.Row{
		{"n", s.N},
		{"mean", num(s.Mean)},
		{"median", num(s.Median)},
		{"std", num(s.Std)},
		{"sem", num(s.SEM)},
		{"min", num(s.Min)},
		{"max", num(s.Max)},
		{"q25", num(s.Q1)},
		{"q75", num(s.Q3)},
		{"iqr", num(s.IQR)},
		{"95% CI", fmt.Sprintf("(%s, %s)", num(s.CILower), num(s.CIUpper))},
	})
	t.Render()
}

func renderPreview(w io.Writer, tb *table.Table, n int) {
	header := make(prettytable.Row, len(tb.Columns))
	for i, c := range tb.Columns {
		header[i] = c
	}
	t := newTable(w, header...)
	for _, row := range tb.Head(n).Rows {
		r := make(prettytable.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		t.AppendRow(r)
	}
	t.Render()
}

func renderMatrix(w io.Writer, m *stats.CorrelationMatrix) {
	header := prettytable.Row{""}
	for _, c := range m.Columns {
		header = append(header, c)
	}
	t := newTable(w, header...)
	for i, c := range m.Columns {
		row := prettytable.Row{c}
		for j := range m.Columns {
			row = append(row, fmt.Sprintf("%.3f", m.At(i, j)))
		}
		t.AppendRow(row)
	}
	t.Render()
}
