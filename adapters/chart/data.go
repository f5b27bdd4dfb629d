package chart

import (
	"math"
	"sort"

	"paperkit/domain/table"
	"paperkit/internal/errors"

	"gonum.org/v1/plot/plotter"
)

// group is the subset of rows sharing one hue value
type group struct {
	name string
	rows []int
}

// groupRows splits the rows of t by the hue column in first-seen order. An
// empty hue yields a single unnamed group of every row.
func groupRows(t *table.Table, hue string) ([]group, error) {
	if hue == "" {
		rows := make([]int, t.Len())
		for i := range rows {
			rows[i] = i
		}
		return []group{{rows: rows}}, nil
	}
	values, err := t.Strings(hue)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int)
	var groups []group
	for i, v := range values {
		if v == "" {
			continue
		}
		gi, ok := index[v]
		if !ok {
			gi = len(groups)
			index[v] = gi
			groups = append(groups, group{name: v})
		}
		groups[gi].rows = append(groups[gi].rows, i)
	}
	return groups, nil
}

// points collects the complete (x, y) pairs over rows, sorted by x when
// ordered is set
func points(xs, ys []float64, rows []int, ordered bool) plotter.XYs {
	pts := make(plotter.XYs, 0, len(rows))
	for _, i := range rows {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) || math.IsInf(xs[i], 0) || math.IsInf(ys[i], 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if ordered {
		sort.SliceStable(pts, func(a, b int) bool { return pts[a].X < pts[b].X })
	}
	return pts
}

func finite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}

// positions maps a column onto x coordinates. Numeric columns are used as
// is; other columns become category indexes and their labels are returned.
func positions(t *table.Table, col string) ([]float64, []string, error) {
	if t.Kind(col) == table.KindNumeric {
		xs, err := t.Floats(col)
		return xs, nil, err
	}
	cats, err := t.Unique(col)
	if err != nil {
		return nil, nil, err
	}
	values, _ := t.Strings(col)
	index := make(map[string]int, len(cats))
	for i, c := range cats {
		index[c] = i
	}
	xs := make([]float64, len(values))
	for i, v := range values {
		if c, ok := index[v]; ok {
			xs[i] = float64(c)
		} else {
			xs[i] = math.NaN()
		}
	}
	return xs, cats, nil
}

func numeric(t *table.Table, col string) ([]float64, error) {
	if err := t.Require(col); err != nil {
		return nil, err
	}
	if t.Kind(col) != table.KindNumeric {
		return nil, errors.InvalidInput("column '" + col + "' is not numeric")
	}
	return t.Floats(col)
}
