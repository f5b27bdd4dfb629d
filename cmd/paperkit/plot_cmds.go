package main

import (
	"fmt"
	"strings"

	"paperkit/adapters/chart"
	"paperkit/adapters/stats"
	"paperkit/app"

	"github.com/spf13/cobra"
)

func newCreatePlotCmd(e *env) *cobra.Command {
	var src sourceFlags
	var req app.PlotRequest

	cmd := &cobra.Command{
		Use:   "create-plot FILE",
		Short: "Create a scatter, line, bar, box or histogram plot",
		Long: `Create a plot from data. Bar plots show the mean of --y-col per --x-col
(and --hue-col) category. The output format follows the file extension:
` + strings.Join(chart.Formats, ", ") + `.

Example: paperkit create-plot data.csv --x-col group --y-col score --plot-type box --output fig/box.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := src.load(cmd.Context(), e, args[0])
			if err != nil {
				return err
			}
			if _, err := e.plots.CreatePlot(tb, req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Plot saved to: %s\n", req.Output)
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&req.X, "x-col", "", "X-axis column name")
	cmd.Flags().StringVar(&req.Y, "y-col", "", "Y-axis column name")
	cmd.Flags().StringVar(&req.Kind, "plot-type", app.PlotScatter, "Plot type: "+strings.Join(app.PlotKinds, "|"))
	cmd.Flags().StringVar(&req.Hue, "hue-col", "", "Column for color grouping")
	cmd.Flags().StringVar(&req.Output, "output", "plot.png", "Output file path")
	cmd.Flags().StringVar(&req.Title, "title", "", "Plot title (default: '<y> vs <x>')")
	cmd.Flags().BoolVar(&req.Options.Regression, "regression", false, "Scatter: add a least-squares line")
	cmd.Flags().BoolVar(&req.Options.ShowValues, "show-values", false, "Bar: print values above bars")
	cmd.Flags().BoolVar(&req.Options.ShowPoints, "show-points", false, "Box: overlay the observations")
	cmd.Flags().IntVar(&req.Options.Bins, "bins", 0, "Histogram: number of bins (0 = automatic)")
	cmd.Flags().BoolVar(&req.Options.KDE, "kde", false, "Histogram: overlay a density estimate")
	_ = cmd.MarkFlagRequired("x-col")
	return cmd
}

func newCorrelationMatrixCmd(e *env) *cobra.Command {
	var src sourceFlags
	var output, method string

	cmd := &cobra.Command{
		Use:   "correlation-matrix FILE",
		Short: "Correlate all numeric columns and optionally save a heatmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := src.load(cmd.Context(), e, args[0])
			if err != nil {
				return err
			}
			m, err := e.analysis.CorrelationMatrix(tb, method)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Numeric columns: %v\n\n", m.Columns)
			renderMatrix(out, m)

			if output != "" {
				fig, err := chart.Heatmap(m, chart.Options{Title: "Correlation Matrix"})
				if err != nil {
					return err
				}
				if err := fig.Save(output); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nCorrelation heatmap saved to: %s\n", output)
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&output, "output", "", "Output file path for the heatmap")
	cmd.Flags().StringVar(&method, "method", stats.Pearson, "Correlation method: pearson|spearman|kendall")
	return cmd
}

func newDemoWorkflowCmd(e *env) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "demo-workflow",
		Short: "Run a complete demonstration workflow with sample data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := e.demo.Run(cmd.Context(), dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sample data saved to: %s\n\n", res.SampleFile)
			fmt.Fprintln(out, "Measurement 1 statistics:")
			renderSummary(out, res.Summary)
			fmt.Fprintf(out, "\nT-test between %s and %s: p-value %s\n\n", res.Groups[0], res.Groups[1], num(res.TTest.P))
			for _, p := range res.Plots {
				fmt.Fprintf(out, "Created: %s\n", p)
			}
			fmt.Fprintf(out, "\nDemo workflow completed (run %s)\n", res.RunID)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory for the generated files")
	return cmd
}
