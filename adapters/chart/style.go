// Package chart renders publication-style figures from tables with
// gonum/plot.
package chart

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DPI is the resolution of raster output
const DPI = 300

// Default canvas sizes
var (
	DefaultWidth         = 6 * vg.Inch
	DefaultHeight        = 4 * vg.Inch
	DefaultHeatmapWidth  = 8 * vg.Inch
	DefaultHeatmapHeight = 6 * vg.Inch
)

// viridis anchor colours, evenly spaced along the colormap
var viridis = []color.RGBA{
	{0x44, 0x01, 0x54, 0xff},
	{0x48, 0x28, 0x78, 0xff},
	{0x3e, 0x49, 0x89, 0xff},
	{0x31, 0x68, 0x8e, 0xff},
	{0x26, 0x82, 0x8e, 0xff},
	{0x1f, 0x9e, 0x89, 0xff},
	{0x35, 0xb7, 0x79, 0xff},
	{0x6e, 0xce, 0x58, 0xff},
	{0xb5, 0xde, 0x2b, 0xff},
	{0xfd, 0xe7, 0x25, 0xff},
}

var fitColor = color.RGBA{0xd6, 0x27, 0x28, 0xff}

// Options controls titles, grouping and per-kind features of a figure
type Options struct {
	Title  string
	XLabel string
	YLabel string
	// Hue names a column whose values split the data into coloured series
	Hue    string
	Width  vg.Length
	Height vg.Length

	Regression bool // scatter: add a least-squares fit
	ShowValues bool // bar: print values above bars
	ShowPoints bool // box: overlay the observations
	Bins       int  // histogram: 0 picks the bin count automatically
	KDE        bool // histogram: overlay a kernel density estimate
}

// colors samples n colours across the viridis map
func colors(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		idx := 0
		if n > 1 {
			idx = i * (len(viridis) - 1) / (n - 1)
		}
		out[i] = viridis[idx]
	}
	return out
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}

// newPlot creates a plot with serif text at publication sizes. The title
// uses the regular face: the PDF backend only embeds the regular Liberation
// faces.
func newPlot(opt Options, title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = firstNonEmpty(opt.Title, title)
	p.Title.TextStyle.Font.Size = vg.Points(13)
	p.Title.Padding = vg.Points(6)

	p.X.Label.Text = firstNonEmpty(opt.XLabel, xlabel)
	p.Y.Label.Text = firstNonEmpty(opt.YLabel, ylabel)
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle.Font.Size = vg.Points(10)
		ax.Tick.Label.Font.Size = vg.Points(9)
	}
	p.Legend.TextStyle.Font.Size = vg.Points(9)
	p.Legend.Top = true
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// swatch is a filled legend square for plotters without a thumbnail
type swatch struct {
	color color.Color
}

// Thumbnail implements plot.Thumbnailer
func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.color, c.ClipPolygonY(pts))
}
