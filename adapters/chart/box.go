package chart

import (
	"fmt"
	"math/rand/v2"

	"paperkit/domain/table"
	"paperkit/internal/errors"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// boxSpan is the share of a category slot covered by its hue boxes
const boxSpan = 0.8

// Box draws the distribution of y per category of x, split by hue. An empty
// x draws a single box. ShowPoints overlays jittered observations.
func Box(t *table.Table, x, y string, opt Options) (*Figure, error) {
	ys, err := numeric(t, y)
	if err != nil {
		return nil, err
	}

	cats := []string{""}
	xv := make([]string, t.Len())
	if x != "" {
		if err := t.Require(x); err != nil {
			return nil, err
		}
		if cats, err = t.Unique(x); err != nil {
			return nil, err
		}
		xv, _ = t.Strings(x)
	}
	catIndex := make(map[string]int, len(cats))
	for i, c := range cats {
		catIndex[c] = i
	}
	groups, err := groupRows(t, opt.Hue)
	if err != nil {
		return nil, err
	}

	title := "Distribution of " + y
	if x != "" {
		title = fmt.Sprintf("%s by %s", y, x)
	}
	p := newPlot(opt, title, x, y)
	if x != "" {
		p.NominalX(cats...)
	} else {
		p.HideX()
	}
	p.Add(plotter.NewGrid())

	k := float64(len(groups))
	step := boxSpan / k
	width := vg.Points(36 / k)
	palette := colors(len(groups))
	jitter := rand.New(rand.NewPCG(42, 42))

	drawn := 0
	for gi, g := range groups {
		perCat := make([]plotter.Values, len(cats))
		for _, row := range g.rows {
			ci, ok := catIndex[xv[row]]
			if !ok || isMissing(ys[row]) {
				continue
			}
			perCat[ci] = append(perCat[ci], ys[row])
		}

		hasBox := false
		for ci, values := range perCat {
			if len(values) == 0 {
				continue
			}
			loc := float64(ci) + (float64(gi)-(k-1)/2)*step
			b, err := plotter.NewBoxPlot(width, loc, values)
			if err != nil {
				return nil, errors.Wrap(err, "failed to build box plot")
			}
			b.FillColor = withAlpha(palette[gi], 0xcc)
			p.Add(b)
			hasBox = true
			drawn++

			if opt.ShowPoints {
				pts := make(plotter.XYs, len(values))
				for i, v := range values {
					pts[i] = plotter.XY{X: loc + (jitter.Float64()-0.5)*step*0.5, Y: v}
				}
				s, err := plotter.NewScatter(pts)
				if err != nil {
					return nil, errors.Wrap(err, "failed to build box points")
				}
				s.GlyphStyle.Color = withAlpha(palette[gi], 0x99)
				s.GlyphStyle.Radius = vg.Points(1.5)
				s.GlyphStyle.Shape = draw.CircleGlyph{}
				p.Add(s)
			}
		}
		if g.name != "" && hasBox {
			p.Legend.Add(g.name, swatch{color: withAlpha(palette[gi], 0xcc)})
		}
	}
	if drawn == 0 {
		return nil, errors.InsufficientData("no observations to plot")
	}
	return newFigure(p, opt, DefaultWidth, DefaultHeight), nil
}
