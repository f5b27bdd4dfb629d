package app

import (
	"paperkit/adapters/stats"
	"paperkit/domain/table"
	"paperkit/internal"
	"paperkit/internal/errors"
)

// AnalysisService runs the statistical analyses behind the CLI commands
type AnalysisService struct {
	log *internal.Logger
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(log *internal.Logger) *AnalysisService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &AnalysisService{log: log}
}

// ColumnReport is the descriptive and normality analysis of one column
type ColumnReport struct {
	Column    string                 `json:"column"`
	Summary   *stats.Summary         `json:"summary"`
	Normality *stats.NormalityResult `json:"normality,omitempty"`
}

// GroupSummary describes one group of a comparison
type GroupSummary struct {
	Name string  `json:"name"`
	N    int     `json:"n"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// GroupComparison is the outcome of CompareGroups. Exactly one of TTest
// and ANOVA is set.
type GroupComparison struct {
	GroupColumn string             `json:"group_column"`
	ValueColumn string             `json:"value_column"`
	Groups      []GroupSummary     `json:"groups"`
	Test        string             `json:"test"`
	TTest       *stats.TTestResult `json:"t_test,omitempty"`
	ANOVA       *stats.ANOVAResult `json:"anova,omitempty"`
}

// Comparison tests
const (
	TestTTest = "t-test"
	TestANOVA = "anova"
)

// AnalyzeColumn describes a numeric column and tests it for normality. The
// normality result is omitted when the test is undefined for the data.
func (s *AnalysisService) AnalyzeColumn(t *table.Table, column string) (*ColumnReport, error) {
	values, err := t.Floats(column)
	if err != nil {
		return nil, err
	}
	summary, err := stats.Describe(values)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot analyze column '%s'", column)
	}

	report := &ColumnReport{Column: column, Summary: summary}
	if normality, err := stats.NormalityTest(values); err != nil {
		s.log.Warn("[Analysis] normality test skipped for %s: %v", column, err)
	} else {
		report.Normality = normality
	}
	s.log.Debug("[Analysis] %s: n=%d mean=%.4f", column, summary.N, summary.Mean)
	return report, nil
}

// CompareGroups splits value by the distinct values of group (first-seen
// order). Two groups are compared with Student's t-test, more with a one-way
// ANOVA.
func (s *AnalysisService) CompareGroups(t *table.Table, group, value string) (*GroupComparison, error) {
	if err := t.Require(group, value); err != nil {
		return nil, err
	}
	samples, names, err := splitByGroup(t, group, value)
	if err != nil {
		return nil, err
	}
	if len(names) < 2 {
		return nil, errors.InsufficientData("need at least 2 groups for comparison")
	}

	cmp := &GroupComparison{GroupColumn: group, ValueColumn: value}
	for i, name := range names {
		gs := GroupSummary{Name: name}
		if sum, err := stats.Describe(samples[i]); err == nil {
			gs.N, gs.Mean, gs.Std = sum.N, sum.Mean, sum.Std
		}
		cmp.Groups = append(cmp.Groups, gs)
	}

	if len(names) == 2 {
		cmp.Test = TestTTest
		cmp.TTest, err = stats.IndependentTTest(samples[0], samples[1], true)
	} else {
		cmp.Test = TestANOVA
		cmp.ANOVA, err = stats.OneWayANOVA(samples...)
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("[Analysis] compared %d groups of %s by %s (%s)", len(names), value, group, cmp.Test)
	return cmp, nil
}

// PairedTest compares two measurement columns of the same subjects
func (s *AnalysisService) PairedTest(t *table.Table, before, after string) (*stats.TTestResult, error) {
	if err := t.Require(before, after); err != nil {
		return nil, err
	}
	b, err := t.Floats(before)
	if err != nil {
		return nil, err
	}
	a, err := t.Floats(after)
	if err != nil {
		return nil, err
	}
	return stats.PairedTTest(b, a)
}

// Correlate measures the association between two columns
func (s *AnalysisService) Correlate(t *table.Table, x, y, method string) (*stats.CorrelationResult, error) {
	if err := t.Require(x, y); err != nil {
		return nil, err
	}
	xs, err := t.Floats(x)
	if err != nil {
		return nil, err
	}
	ys, err := t.Floats(y)
	if err != nil {
		return nil, err
	}
	return stats.Correlation(xs, ys, method)
}

// CorrelationMatrix correlates every pair of numeric columns
func (s *AnalysisService) CorrelationMatrix(t *table.Table, method string) (*stats.CorrelationMatrix, error) {
	cols := t.NumericColumns()
	if len(cols) < 2 {
		return nil, errors.InsufficientData("need at least 2 numeric columns for correlation matrix")
	}
	s.log.Debug("[Analysis] correlation matrix over %v", cols)
	return stats.Correlations(t, cols, method)
}

func splitByGroup(t *table.Table, group, value string) ([][]float64, []string, error) {
	names, err := t.Unique(group)
	if err != nil {
		return nil, nil, err
	}
	labels, _ := t.Strings(group)
	values, err := t.Floats(value)
	if err != nil {
		return nil, nil, err
	}

	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	samples := make([][]float64, len(names))
	for i, label := range labels {
		if gi, ok := index[label]; ok {
			samples[gi] = append(samples[gi], values[i])
		}
	}
	return samples, names, nil
}
