package chart

import (
	"fmt"
	"image/color"
	"math"

	"paperkit/adapters/stats"
	"paperkit/internal/errors"

	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// matrixGrid exposes a correlation matrix as a plotter.GridXYZ with the
// first column at the top.
type matrixGrid struct {
	values [][]float64
}

func (g matrixGrid) Dims() (c, r int) { return len(g.values), len(g.values) }
func (g matrixGrid) X(c int) float64  { return float64(c) }
func (g matrixGrid) Y(r int) float64  { return float64(r) }

func (g matrixGrid) Z(c, r int) float64 {
	v := g.values[len(g.values)-1-r][c]
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// Heatmap draws a correlation matrix with annotated cells on a diverging
// blue-red scale centred at 0.
func Heatmap(m *stats.CorrelationMatrix, opt Options) (*Figure, error) {
	n := len(m.Columns)
	if n < 2 || len(m.Values) != n {
		return nil, errors.InsufficientData("heatmap needs a square matrix of at least 2 columns")
	}

	p := newPlot(opt, "Correlation Matrix", "", "")

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)
	grid := matrixGrid{values: m.Values}
	hm := plotter.NewHeatMap(grid, cmap.Palette(255))
	hm.Min, hm.Max = -1, 1
	p.Add(hm)

	var cells plotter.XYLabels
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := m.Values[n-1-r][c]
			label := "NA"
			if !math.IsNaN(v) {
				label = fmt.Sprintf("%.2f", v)
			}
			cells.XYs = append(cells.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			cells.Labels = append(cells.Labels, label)
		}
	}
	labels, err := plotter.NewLabels(cells)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build heatmap labels")
	}
	for i := range labels.TextStyle {
		v := grid.Z(int(cells.XYs[i].X), int(cells.XYs[i].Y))
		labels.TextStyle[i].Font.Size = vg.Points(9)
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
		labels.TextStyle[i].Color = color.Black
		if math.Abs(v) > 0.6 {
			labels.TextStyle[i].Color = color.White
		}
	}
	p.Add(labels)

	reversed := make([]string, n)
	for i, c := range m.Columns {
		reversed[n-1-i] = c
	}
	p.NominalX(m.Columns...)
	p.NominalY(reversed...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter

	return newFigure(p, opt, DefaultHeatmapWidth, DefaultHeatmapHeight), nil
}
