package chart

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"paperkit/internal/errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Figure is a plot together with its canvas size
type Figure struct {
	Plot   *plot.Plot
	Width  vg.Length
	Height vg.Length
}

func newFigure(p *plot.Plot, opt Options, w, h vg.Length) *Figure {
	if opt.Width > 0 {
		w = opt.Width
	}
	if opt.Height > 0 {
		h = opt.Height
	}
	return &Figure{Plot: p, Width: w, Height: h}
}

// Formats lists the supported output extensions
var Formats = []string{"png", "jpg", "jpeg", "tif", "tiff", "svg", "pdf", "eps"}

// Save renders the figure to path, choosing the encoder from the extension.
// Raster formats are written at DPI. The parent directory is created.
func (f *Figure) Save(path string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !supported(ext) {
		if ext == "" {
			ext = path
		}
		return errors.UnsupportedFormat(ext)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create output directory %s", dir)
		}
	}

	switch ext {
	case "svg", "pdf", "eps":
		if err := f.Plot.Save(f.Width, f.Height, path); err != nil {
			return errors.Wrapf(err, "failed to save figure %s", path)
		}
		return nil
	}

	c := vgimg.NewWith(vgimg.UseWH(f.Width, f.Height), vgimg.UseDPI(DPI))
	f.Plot.Draw(draw.New(c))

	var enc io.WriterTo
	switch ext {
	case "png":
		enc = vgimg.PngCanvas{Canvas: c}
	case "jpg", "jpeg":
		enc = vgimg.JpegCanvas{Canvas: c}
	default:
		enc = vgimg.TiffCanvas{Canvas: c}
	}

	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if _, err := enc.WriteTo(out); err != nil {
		out.Close()
		return errors.Wrapf(err, "failed to encode %s", path)
	}
	return out.Close()
}

// SaveFormats writes base.<format> for every format and returns the paths.
// An extension already present on base is replaced.
func (f *Figure) SaveFormats(base string, formats ...string) ([]string, error) {
	if len(formats) == 0 {
		formats = []string{"png", "pdf"}
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + strings.TrimPrefix(strings.ToLower(format), ".")
		if err := f.Save(path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func supported(ext string) bool {
	for _, f := range Formats {
		if f == ext {
			return true
		}
	}
	return false
}
