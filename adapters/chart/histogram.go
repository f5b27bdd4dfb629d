package chart

import (
	"math"

	"paperkit/adapters/stats"
	"paperkit/domain/table"
	"paperkit/internal/errors"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Histogram bins a numeric column, one translucent histogram per hue value.
// With KDE the histograms are normalised to densities and overlaid with a
// Gaussian kernel density estimate.
func Histogram(t *table.Table, col string, opt Options) (*Figure, error) {
	values, err := numeric(t, col)
	if err != nil {
		return nil, err
	}
	groups, err := groupRows(t, opt.Hue)
	if err != nil {
		return nil, err
	}

	ylabel := "Count"
	if opt.KDE {
		ylabel = "Density"
	}
	p := newPlot(opt, "Distribution of "+col, col, ylabel)
	p.Add(plotter.NewGrid())

	palette := colors(len(groups))
	drawn := 0
	for gi, g := range groups {
		data := make(plotter.Values, 0, len(g.rows))
		for _, row := range g.rows {
			if !isMissing(values[row]) {
				data = append(data, values[row])
			}
		}
		if len(data) == 0 {
			continue
		}

		bins := opt.Bins
		if bins <= 0 {
			bins = AutoBins(data)
		}
		h, err := plotter.NewHist(data, bins)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build histogram")
		}
		h.FillColor = withAlpha(palette[gi], 0xb3)
		h.LineStyle.Width = vg.Points(0.5)
		if opt.KDE {
			h.Normalize(1)
		}
		p.Add(h)
		if g.name != "" {
			p.Legend.Add(g.name, h)
		}

		if opt.KDE && len(data) > 1 {
			kde := densityFunc(data)
			kde.LineStyle.Color = palette[gi]
			kde.LineStyle.Width = vg.Points(1.5)
			p.Add(kde)
		}
		drawn++
	}
	if drawn == 0 {
		return nil, errors.InsufficientData("no observations to plot")
	}
	return newFigure(p, opt, DefaultWidth, DefaultHeight), nil
}

// MaxBins bounds the automatic bin count
const MaxBins = 1000

// AutoBins picks the larger of the Sturges and Freedman-Diaconis bin counts.
// Freedman-Diaconis is limited to max(sturges, 10*sqrt(n)) and MaxBins so
// a single far outlier cannot explode the bin count.
func AutoBins(xs []float64) int {
	data := finite(xs)
	n := float64(len(data))
	if n < 2 {
		return 1
	}
	sturges := int(math.Ceil(math.Log2(n))) + 1

	iqr := stats.Quantile(data, 0.75) - stats.Quantile(data, 0.25)
	lo, hi := minMax(data)
	if iqr <= 0 || hi <= lo {
		return sturges
	}
	binWidth := 2 * iqr * math.Pow(n, -1.0/3)
	fd := math.Ceil((hi - lo) / binWidth)
	limit := math.Min(math.Max(float64(sturges), 10*math.Sqrt(n)), MaxBins)
	if fd > limit {
		fd = limit
	}
	if int(fd) > sturges {
		return int(fd)
	}
	return sturges
}

// densityFunc is a Gaussian KDE with Scott's bandwidth
func densityFunc(data []float64) *plotter.Function {
	n := float64(len(data))
	bw := stat.StdDev(data, nil) * math.Pow(n, -0.2)
	lo, hi := minMax(data)
	if bw <= 0 {
		bw = 1
	}
	norm := 1 / (n * bw * math.Sqrt(2*math.Pi))

	f := plotter.NewFunction(func(x float64) float64 {
		var sum float64
		for _, v := range data {
			u := (x - v) / bw
			sum += math.Exp(-0.5 * u * u)
		}
		return sum * norm
	})
	f.XMin, f.XMax = lo-3*bw, hi+3*bw
	f.Samples = 200
	return f
}

func minMax(xs []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}

func isMissing(x float64) bool {
	return math.IsNaN(x) || math.IsInf(x, 0)
}
