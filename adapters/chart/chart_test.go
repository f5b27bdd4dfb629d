package chart

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"paperkit/adapters/stats"
	"paperkit/domain/table"
	"paperkit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *table.Table {
	return table.New(
		[]string{"group", "x", "y", "batch"},
		[][]string{
			{"A", "1", "2.1", "one"},
			{"A", "2", "3.9", "two"},
			{"B", "3", "6.2", "one"},
			{"B", "4", "8.1", "two"},
			{"C", "5", "9.8", "one"},
			{"C", "6", "", "two"},
			{"A", "7", "14.2", "one"},
		},
	)
}

func assertRendered(t *testing.T, fig *Figure, name string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out", name)
	require.NoError(t, fig.Save(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestScatter(t *testing.T) {
	fig, err := Scatter(sampleTable(), "x", "y", Options{Hue: "group", Regression: true})
	require.NoError(t, err)
	assert.Equal(t, "y vs x", fig.Plot.Title.Text)
	assert.Equal(t, DefaultWidth, fig.Width)
	assertRendered(t, fig, "scatter.png")

	_, err = Scatter(sampleTable(), "group", "y", Options{})
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))

	_, err = Scatter(sampleTable(), "x", "height", Options{})
	assert.True(t, errors.Is(err, errors.CodeColumnNotFound))
}

func TestLine(t *testing.T) {
	fig, err := Line(sampleTable(), "x", "y", Options{Hue: "batch", Title: "Trend"})
	require.NoError(t, err)
	assert.Equal(t, "Trend", fig.Plot.Title.Text)
	assertRendered(t, fig, "line.svg")

	byCategory, err := Line(sampleTable(), "group", "y", Options{})
	require.NoError(t, err)
	assertRendered(t, byCategory, "line.pdf")
}

func TestBar(t *testing.T) {
	means, err := sampleTable().GroupMean([]string{"group", "batch"}, "y")
	require.NoError(t, err)

	fig, err := Bar(means, "group", "y", Options{Hue: "batch", ShowValues: true})
	require.NoError(t, err)
	assertRendered(t, fig, "bar.png")

	_, err = Bar(sampleTable(), "group", "y", Options{})
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))
}

func TestBox(t *testing.T) {
	fig, err := Box(sampleTable(), "group", "y", Options{ShowPoints: true, Hue: "batch"})
	require.NoError(t, err)
	assertRendered(t, fig, "box.jpg")
	assertRendered(t, fig, "box.pdf")

	single, err := Box(sampleTable(), "", "x", Options{})
	require.NoError(t, err)
	assert.Equal(t, "Distribution of x", single.Plot.Title.Text)
	assertRendered(t, single, "box.tif")
}

func TestHistogram(t *testing.T) {
	fig, err := Histogram(sampleTable(), "x", Options{KDE: true})
	require.NoError(t, err)
	assertRendered(t, fig, "hist.png")

	fixed, err := Histogram(sampleTable(), "y", Options{Bins: 3, Hue: "batch"})
	require.NoError(t, err)
	assertRendered(t, fixed, "hist.eps")
}

func TestAutoBins(t *testing.T) {
	xs := make([]float64, 100)
	for i := range xs {
		xs[i] = float64(i)
	}
	// Sturges gives 8; Freedman-Diaconis gives ceil(99 / (2*49.5*100^(-1/3))) = 5
	assert.Equal(t, 8, AutoBins(xs))
	assert.Equal(t, 1, AutoBins([]float64{3}))
	assert.Equal(t, 3, AutoBins([]float64{2, 2, 2}))
}

func TestAutoBins_FarOutlierIsBounded(t *testing.T) {
	xs := make([]float64, 100, 101)
	for i := range xs {
		xs[i] = float64(i)
	}
	xs = append(xs, 1e11)

	// limited to 10*sqrt(101)
	assert.Equal(t, 100, AutoBins(xs))

	tb := table.New([]string{"v"}, nil)
	for _, x := range xs {
		tb.Rows = append(tb.Rows, []string{strconv.FormatFloat(x, 'g', -1, 64)})
	}
	tb = table.New(tb.Columns, tb.Rows)
	fig, err := Histogram(tb, "v", Options{})
	require.NoError(t, err)
	assertRendered(t, fig, "outlier.png")
}

func TestSwatchLegend_RendersToPDF(t *testing.T) {
	fig, err := Box(sampleTable(), "", "y", Options{Hue: "batch"})
	require.NoError(t, err)
	assertRendered(t, fig, "legend.pdf")
}

func TestHeatmap(t *testing.T) {
	m, err := stats.Correlations(sampleTable(), nil, stats.Pearson)
	require.NoError(t, err)

	fig, err := Heatmap(m, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Correlation Matrix", fig.Plot.Title.Text)
	assert.Equal(t, DefaultHeatmapWidth, fig.Width)
	assertRendered(t, fig, "heatmap.png")

	_, err = Heatmap(&stats.CorrelationMatrix{Columns: []string{"a"}, Values: [][]float64{{1}}}, Options{})
	assert.True(t, errors.Is(err, errors.CodeInsufficientData))
}

func TestSave_UnsupportedExtension(t *testing.T) {
	fig, err := Histogram(sampleTable(), "x", Options{})
	require.NoError(t, err)

	err = fig.Save(filepath.Join(t.TempDir(), "figure.bmp"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeUnsupportedFormat))
}

func TestSaveFormats(t *testing.T) {
	fig, err := Histogram(sampleTable(), "x", Options{})
	require.NoError(t, err)

	base := filepath.Join(t.TempDir(), "figure.png")
	paths, err := fig.SaveFormats(base, "png", "PDF", "svg")
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(filepath.Dir(base), "figure.pdf"), paths[1])
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}
