package chart

import (
	"fmt"
	"math"

	"paperkit/domain/table"
	"paperkit/internal/errors"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// Bar draws one bar per category of x, grouped side by side by hue. The
// table must hold at most one value per (x, hue) pair; aggregate first.
func Bar(t *table.Table, x, y string, opt Options) (*Figure, error) {
	if err := t.Require(x); err != nil {
		return nil, err
	}
	ys, err := numeric(t, y)
	if err != nil {
		return nil, err
	}
	cats, err := t.Unique(x)
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return nil, errors.InsufficientData("no categories to plot")
	}
	xv, _ := t.Strings(x)
	catIndex := make(map[string]int, len(cats))
	for i, c := range cats {
		catIndex[c] = i
	}
	groups, err := groupRows(t, opt.Hue)
	if err != nil {
		return nil, err
	}

	p := newPlot(opt, fmt.Sprintf("%s by %s", y, x), x, y)
	p.NominalX(cats...)
	p.Add(plotter.NewGrid())

	width := vg.Points(28)
	if len(groups) > 1 {
		width = vg.Points(48 / float64(len(groups)))
	}
	palette := colors(len(groups))

	for gi, g := range groups {
		values := make(plotter.Values, len(cats))
		filled := make([]bool, len(cats))
		for _, row := range g.rows {
			ci, ok := catIndex[xv[row]]
			if !ok {
				continue
			}
			if filled[ci] {
				return nil, errors.InvalidInput(fmt.Sprintf("bar chart needs one value per category; '%s' repeats", xv[row]))
			}
			filled[ci] = true
			if v := ys[row]; !math.IsNaN(v) {
				values[ci] = v
			}
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build bar chart")
		}
		offset := (float64(gi) - float64(len(groups)-1)/2) * float64(width)
		bars.Offset = vg.Length(offset)
		bars.Color = palette[gi]
		bars.LineStyle.Width = vg.Points(0.5)
		p.Add(bars)
		if g.name != "" {
			p.Legend.Add(g.name, bars)
		}

		if opt.ShowValues {
			labels, err := valueLabels(values, filled, vg.Length(offset))
			if err != nil {
				return nil, err
			}
			p.Add(labels)
		}
	}
	return newFigure(p, opt, DefaultWidth, DefaultHeight), nil
}

func valueLabels(values plotter.Values, filled []bool, offset vg.Length) (*plotter.Labels, error) {
	var xyl plotter.XYLabels
	for i, v := range values {
		if !filled[i] {
			continue
		}
		xyl.XYs = append(xyl.XYs, plotter.XY{X: float64(i), Y: v})
		xyl.Labels = append(xyl.Labels, fmt.Sprintf("%.2f", v))
	}
	labels, err := plotter.NewLabels(xyl)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build bar labels")
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = vg.Points(8)
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YBottom
	}
	labels.Offset = vg.Point{X: offset, Y: vg.Points(2)}
	return labels, nil
}
