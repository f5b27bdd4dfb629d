package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"paperkit/adapters/loader"
	"paperkit/app"
	"paperkit/domain/table"
	"paperkit/internal"
	"paperkit/internal/config"
	"paperkit/ports"

	"github.com/spf13/cobra"
)

// env carries the services shared by every command
type env struct {
	log      *internal.Logger
	loader   *loader.Loader
	analysis *app.AnalysisService
	plots    *app.PlotService
	demo     *app.DemoWorkflow
}

func newEnv(log *internal.Logger) *env {
	return &env{
		log:      log,
		loader:   loader.New(log),
		analysis: app.NewAnalysisService(log),
		plots:    app.NewPlotService(log),
		demo:     app.NewDemoWorkflow(log),
	}
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := internal.NewDefaultLogger()
	defer log.Sync()

	if err := newRootCmd(newEnv(log)).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(e *env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "paperkit",
		Short: "Data analysis and figure generation for academic papers",
		Long: `paperkit loads tabular data (CSV, Excel, JSON, SQLite, PostgreSQL), runs
descriptive and inferential statistics and renders publication-style figures.

Log verbosity is controlled by LOG_LEVEL=ERROR|WARN|INFO|DEBUG|TRACE (default INFO).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newGenerateSampleDataCmd(e),
		newLoadDataCmd(e),
		newAnalyzeColumnCmd(e),
		newCompareGroupsCmd(e),
		newPairedTestCmd(e),
		newCorrelateCmd(e),
		newCreatePlotCmd(e),
		newCorrelationMatrixCmd(e),
		newDemoWorkflowCmd(e),
	)
	return rootCmd
}

// sourceFlags are the data source options shared by the file commands
type sourceFlags struct {
	fileType   string
	sheet      string
	recordPath string
	query      string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fileType, "file-type", "", "Source format: csv|excel|json|sql (default: inferred from the path)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "0", "Excel sheet name or index; table name for SQL sources")
	cmd.Flags().StringVar(&f.recordPath, "record-path", "", "Path to the record array inside a JSON document (e.g. data.rows)")
	cmd.Flags().StringVar(&f.query, "query", "", "SQL query for sqlite:// and postgres:// sources")
}

func (f *sourceFlags) load(ctx context.Context, e *env, path string, required ...string) (*table.Table, error) {
	src := ports.TableSource{
		Path:            path,
		Format:          f.fileType,
		Sheet:           f.sheet,
		RecordPath:      f.recordPath,
		Query:           f.query,
		RequiredColumns: required,
	}
	if isSQL(path, f.fileType) && f.sheet == "0" {
		src.Sheet = ""
	}
	return e.loader.Load(ctx, src)
}

func isSQL(path, fileType string) bool {
	if fileType != "" {
		return strings.EqualFold(fileType, ports.FormatSQL)
	}
	format, err := loader.DetectFormat(path)
	return err == nil && format == ports.FormatSQL
}
