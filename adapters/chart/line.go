package chart

import (
	"fmt"

	"paperkit/domain/table"
	"paperkit/internal/errors"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Line connects y over x (sorted by x), one line per hue value. A
// non-numeric x column is plotted at category positions.
func Line(t *table.Table, x, y string, opt Options) (*Figure, error) {
	if err := t.Require(x); err != nil {
		return nil, err
	}
	ys, err := numeric(t, y)
	if err != nil {
		return nil, err
	}
	xs, cats, err := positions(t, x)
	if err != nil {
		return nil, err
	}
	groups, err := groupRows(t, opt.Hue)
	if err != nil {
		return nil, err
	}

	p := newPlot(opt, fmt.Sprintf("%s vs %s", y, x), x, y)
	p.Add(plotter.NewGrid())
	if cats != nil {
		p.NominalX(cats...)
	}

	palette := colors(len(groups))
	drawn := 0
	for i, g := range groups {
		pts := points(xs, ys, g.rows, true)
		if len(pts) == 0 {
			continue
		}
		l, s, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build line")
		}
		l.LineStyle.Color = palette[i]
		l.LineStyle.Width = vg.Points(1.5)
		s.GlyphStyle.Color = palette[i]
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(l, s)
		if g.name != "" {
			p.Legend.Add(g.name, l, s)
		}
		drawn++
	}
	if drawn == 0 {
		return nil, errors.InsufficientData("no complete observations to plot")
	}
	return newFigure(p, opt, DefaultWidth, DefaultHeight), nil
}
