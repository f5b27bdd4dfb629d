package chart

import (
	"fmt"

	"paperkit/domain/table"
	"paperkit/internal/errors"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Scatter plots y against x, coloured by hue, with an optional
// least-squares line through all points.
func Scatter(t *table.Table, x, y string, opt Options) (*Figure, error) {
	xs, err := numeric(t, x)
	if err != nil {
		return nil, err
	}
	ys, err := numeric(t, y)
	if err != nil {
		return nil, err
	}
	groups, err := groupRows(t, opt.Hue)
	if err != nil {
		return nil, err
	}

	p := newPlot(opt, fmt.Sprintf("%s vs %s", y, x), x, y)
	p.Add(plotter.NewGrid())

	palette := colors(len(groups))
	var all plotter.XYs
	for i, g := range groups {
		pts := points(xs, ys, g.rows, false)
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build scatter")
		}
		s.GlyphStyle.Color = withAlpha(palette[i], 0xb3)
		s.GlyphStyle.Radius = vg.Points(2.5)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		if g.name != "" {
			p.Legend.Add(g.name, s)
		}
		all = append(all, pts...)
	}
	if len(all) == 0 {
		return nil, errors.InsufficientData("no complete observations to plot")
	}

	if opt.Regression {
		if err := addFit(p, all); err != nil {
			return nil, err
		}
	}
	return newFigure(p, opt, DefaultWidth, DefaultHeight), nil
}

// addFit draws y = a + bx fitted by ordinary least squares
func addFit(p *plot.Plot, pts plotter.XYs) error {
	if len(pts) < 2 {
		return errors.InsufficientData("regression line needs at least 2 points")
	}
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, pt := range pts {
		xs[i], ys[i] = pt.X, pt.Y
	}
	xmin, xmax, _, _ := plotter.XYRange(pts)
	if xmin == xmax {
		return errors.InsufficientData("regression line needs distinct x values")
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)

	fit := plotter.NewFunction(func(x float64) float64 { return alpha + beta*x })
	fit.XMin, fit.XMax = xmin, xmax
	fit.Samples = 2
	fit.LineStyle.Color = fitColor
	fit.LineStyle.Width = vg.Points(1.5)
	fit.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(fit)
	p.Legend.Add(fmt.Sprintf("fit (R² = %.3f)", r2), fit)
	return nil
}
