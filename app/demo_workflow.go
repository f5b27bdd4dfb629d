package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"paperkit/adapters/chart"
	"paperkit/adapters/stats"
	"paperkit/internal"
	"paperkit/internal/errors"
	"paperkit/internal/testkit"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Demo output file names
const (
	DemoSampleFile  = "demo_sample_data.csv"
	DemoBarPlot     = "demo_bar_plot.png"
	DemoScatterPlot = "demo_scatter_plot.png"
	DemoHeatmap     = "demo_correlation_heatmap.png"
)

// DemoResult summarises one demo workflow run
type DemoResult struct {
	RunID      string             `json:"run_id"`
	Dir        string             `json:"dir"`
	SampleFile string             `json:"sample_file"`
	Summary    *stats.Summary     `json:"summary"`
	Groups     [2]string          `json:"groups"`
	TTest      *stats.TTestResult `json:"t_test"`
	Plots      []string           `json:"plots"`
	Duration   time.Duration      `json:"duration"`
}

// DemoWorkflow runs the end-to-end demonstration on generated data
type DemoWorkflow struct {
	analysis *AnalysisService
	log      *internal.Logger

	SampleSize int
	Seed       uint64
}

// NewDemoWorkflow creates a demo workflow with 100 samples and seed 42
func NewDemoWorkflow(log *internal.Logger) *DemoWorkflow {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &DemoWorkflow{
		analysis:   NewAnalysisService(log),
		log:        log,
		SampleSize: 100,
		Seed:       42,
	}
}

// Run generates sample data into dir, analyses measurement_1, compares the
// first two groups and renders the bar, scatter and heatmap figures.
func (w *DemoWorkflow) Run(ctx context.Context, dir string) (*DemoResult, error) {
	start := time.Now()
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create demo directory %s", dir)
	}

	res := &DemoResult{RunID: uuid.New().String(), Dir: dir}
	log := w.log.With("run_id", res.RunID)
	log.Info("[Demo] starting demonstration workflow in %s", dir)

	// 1. sample data
	data := testkit.SampleData(w.SampleSize, w.Seed)
	res.SampleFile = filepath.Join(dir, DemoSampleFile)
	f, err := os.Create(res.SampleFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", res.SampleFile)
	}
	if err := data.WriteCSV(f); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "failed to write %s", res.SampleFile)
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrapf(err, "failed to close %s", res.SampleFile)
	}
	log.Info("[Demo] sample data saved to %s", res.SampleFile)

	// 2. descriptive statistics
	report, err := w.analysis.AnalyzeColumn(data, testkit.ColumnMeasurement1)
	if err != nil {
		return nil, err
	}
	res.Summary = report.Summary

	// 3. first two groups
	samples, names, err := splitByGroup(data, testkit.ColumnGroup, testkit.ColumnMeasurement1)
	if err != nil {
		return nil, err
	}
	if len(names) < 2 {
		return nil, errors.InsufficientData("demo data produced fewer than 2 groups")
	}
	res.Groups = [2]string{names[0], names[1]}
	if res.TTest, err = stats.IndependentTTest(samples[0], samples[1], true); err != nil {
		return nil, err
	}
	log.Info("[Demo] t-test %s vs %s: p=%.4f", names[0], names[1], res.TTest.P)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 4. figures, rendered concurrently
	means, err := data.GroupMean([]string{testkit.ColumnGroup}, testkit.ColumnMeasurement1)
	if err != nil {
		return nil, err
	}
	matrix, err := w.analysis.CorrelationMatrix(data, stats.Pearson)
	if err != nil {
		return nil, err
	}

	renders := []struct {
		name  string
		build func() (*chart.Figure, error)
	}{
		{DemoBarPlot, func() (*chart.Figure, error) {
			return chart.Bar(means, testkit.ColumnGroup, testkit.ColumnMeasurement1, chart.Options{
				Title:  "Mean Measurement by Group",
				XLabel: "Group",
				YLabel: "Mean Measurement 1",
			})
		}},
		{DemoScatterPlot, func() (*chart.Figure, error) {
			return chart.Scatter(data, testkit.ColumnMeasurement1, testkit.ColumnMeasurement2, chart.Options{
				Title:      "Measurement 1 vs Measurement 2",
				XLabel:     "Measurement 1",
				YLabel:     "Measurement 2",
				Hue:        testkit.ColumnGroup,
				Regression: true,
			})
		}},
		{DemoHeatmap, func() (*chart.Figure, error) {
			return chart.Heatmap(matrix, chart.Options{Title: "Correlation Matrix"})
		}},
	}

	res.Plots = make([]string, len(renders))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range renders {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fig, err := r.build()
			if err != nil {
				return errors.Wrapf(err, "failed to build %s", r.name)
			}
			path := filepath.Join(dir, r.name)
			if err := fig.Save(path); err != nil {
				return err
			}
			res.Plots[i] = path
			log.Info("[Demo] created %s", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	log.Info("[Demo] workflow finished in %.2fms", float64(res.Duration.Nanoseconds())/1e6)
	return res, nil
}
