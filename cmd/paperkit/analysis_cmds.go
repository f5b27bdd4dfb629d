package main

import (
	"fmt"

	"paperkit/adapters/stats"

	"github.com/spf13/cobra"
)

func newAnalyzeColumnCmd(e *env) *cobra.Command {
	var src sourceFlags
	var column string

	cmd := &cobra.Command{
		Use:   "analyze-column FILE",
		Short: "Perform descriptive statistics on a single column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := src.load(cmd.Context(), e, args[0], column)
			if err != nil {
				return err
			}
			report, err := e.analysis.AnalyzeColumn(tb, column)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Descriptive statistics for '%s':\n", column)
			renderSummary(out, report.Summary)

			if n := report.Normality; n != nil {
				fmt.Fprintln(out, "\nNormality test (Shapiro-Wilk):")
				t := newTable(out, "W-statistic", "p-value", "Is normal")
				t.AppendRow([]interface{}{num(n.W), num(n.P), n.IsNormal})
				t.Render()
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&column, "column", "", "Column name for analysis")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func newCompareGroupsCmd(e *env) *cobra.Command {
	var src sourceFlags
	var groupCol, valueCol string

	cmd := &cobra.Command{
		Use:   "compare-groups FILE",
		Short: "Compare groups using a t-test (2 groups) or one-way ANOVA (more)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := src.load(cmd.Context(), e, args[0], groupCol, valueCol)
			if err != nil {
				return err
			}
			cmp, err := e.analysis.CompareGroups(tb, groupCol, valueCol)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Comparing groups in '%s' for values in '%s'\n\n", groupCol, valueCol)
			g := newTable(out, "Group", "n", "Mean", "Std")
			for _, s := range cmp.Groups {
				g.AppendRow([]interface{}{s.Name, s.N, num(s.Mean), num(s.Std)})
			}
			g.Render()

			if cmp.TTest != nil {
				fmt.Fprintln(out, "\nIndependent t-test results:")
				t := newTable(out, "t-statistic", "p-value", "df", "Cohen's d")
				t.AppendRow([]interface{}{num(cmp.TTest.T), num(cmp.TTest.P), cmp.TTest.DF, num(cmp.TTest.CohensD)})
				t.Render()
			} else {
				fmt.Fprintln(out, "\nOne-way ANOVA results:")
				t := newTable(out, "F-statistic", "p-value", "DF between", "DF within")
				t.AppendRow([]interface{}{num(cmp.ANOVA.F), num(cmp.ANOVA.P), cmp.ANOVA.DFBetween, cmp.ANOVA.DFWithin})
				t.Render()
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&groupCol, "group-col", "", "Column name for grouping")
	cmd.Flags().StringVar(&valueCol, "value-col", "", "Column name for values")
	_ = cmd.MarkFlagRequired("group-col")
	_ = cmd.MarkFlagRequired("value-col")
	return cmd
}

func newPairedTestCmd(e *env) *cobra.Command {
	var src sourceFlags
	var before, after string

	cmd := &cobra.Command{
		Use:   "paired-test FILE",
		Short: "Paired t-test between two measurement columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := src.load(cmd.Context(), e, args[0], before, after)
			if err != nil {
				return err
			}
			res, err := e.analysis.PairedTest(tb, before, after)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Paired t-test '%s' -> '%s':\n", before, after)
			t := newTable(out, "t-statistic", "p-value", "df", "Mean difference")
			t.AppendRow([]interface{}{num(res.T), num(res.P), res.DF, num(res.MeanDiff)})
			t.Render()
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&before, "before", "", "Column with the first measurement")
	cmd.Flags().StringVar(&after, "after", "", "Column with the second measurement")
	_ = cmd.MarkFlagRequired("before")
	_ = cmd.MarkFlagRequired("after")
	return cmd
}

func newCorrelateCmd(e *env) *cobra.Command {
	var src sourceFlags
	var x, y, method string

	cmd := &cobra.Command{
		Use:   "correlate FILE",
		Short: "Correlation between two columns (pearson, spearman or kendall)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := src.load(cmd.Context(), e, args[0], x, y)
			if err != nil {
				return err
			}
			res, err := e.analysis.Correlate(tb, x, y, method)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Correlation of '%s' and '%s':\n", x, y)
			t := newTable(out, "Method", "r", "p-value", "n")
			t.AppendRow([]interface{}{res.Method, num(res.R), num(res.P), res.N})
			t.Render()
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&x, "x", "", "First column")
	cmd.Flags().StringVar(&y, "y", "", "Second column")
	cmd.Flags().StringVar(&method, "method", stats.Pearson, "Correlation method: pearson|spearman|kendall")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")
	return cmd
}
