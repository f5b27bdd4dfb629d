package stats

import (
	"math"
	"testing"

	"paperkit/domain/table"
	"paperkit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-3

func TestDescribe(t *testing.T) {
	s, err := Describe([]float64{5, 1, 4, 2, 3, math.NaN()})
	require.NoError(t, err)

	assert.Equal(t, 5, s.N)
	assert.InDelta(t, 3.0, s.Mean, tol)
	assert.InDelta(t, 3.0, s.Median, tol)
	assert.InDelta(t, 1.5811, s.Std, tol)
	assert.InDelta(t, 0.7071, s.SEM, tol)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.InDelta(t, 2.0, s.Q1, tol)
	assert.InDelta(t, 4.0, s.Q3, tol)
	assert.InDelta(t, 2.0, s.IQR, tol)
	assert.InDelta(t, 1.0368, s.CILower, tol)
	assert.InDelta(t, 4.9632, s.CIUpper, tol)
}

func TestDescribe_InterpolatedQuartiles(t *testing.T) {
	s, err := Describe([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 1.75, s.Q1, 1e-9)
	assert.InDelta(t, 3.25, s.Q3, 1e-9)
	assert.InDelta(t, 2.5, s.Median, 1e-9)
}

func TestDescribe_EmptyInput(t *testing.T) {
	_, err := Describe(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeInsufficientData))
	assert.Equal(t, "cannot compute statistics on empty data", err.Error())

	_, err = Describe([]float64{math.NaN(), math.NaN()})
	assert.True(t, errors.Is(err, errors.CodeInsufficientData))

	single, err := Describe([]float64{7})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(single.Std))
	assert.True(t, math.IsNaN(single.CILower))
}

func TestConfidenceInterval(t *testing.T) {
	lo, hi, err := ConfidenceInterval([]float64{1, 2, 3, 4, 5}, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 1.0368, lo, tol)
	assert.InDelta(t, 4.9632, hi, tol)

	lo99, hi99, err := ConfidenceInterval([]float64{1, 2, 3, 4, 5}, 0.99)
	require.NoError(t, err)
	assert.Less(t, lo99, lo)
	assert.Greater(t, hi99, hi)

	_, _, err = ConfidenceInterval([]float64{1, 2}, 1.5)
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))

	_, _, err = ConfidenceInterval([]float64{1}, 0.95)
	assert.True(t, errors.Is(err, errors.CodeInsufficientData))
}

func TestIndependentTTest(t *testing.T) {
	a := []float64{1.2, 2.3, 3.1, 4.5, 5.2}
	b := []float64{6.1, 7.3, 8.2, 9.1, 10.5}

	student, err := IndependentTTest(a, b, true)
	require.NoError(t, err)
	assert.Equal(t, "student", student.Method)
	assert.InDelta(t, -4.7695, student.T, tol)
	assert.Equal(t, 8.0, student.DF)
	assert.InDelta(t, -3.0165, student.CohensD, tol)
	assert.Less(t, student.P, 0.01)
	assert.True(t, student.Significant(0.05))

	welch, err := IndependentTTest(a, b, false)
	require.NoError(t, err)
	assert.Equal(t, "welch", welch.Method)
	assert.InDelta(t, -4.7695, welch.T, tol)
	assert.InDelta(t, 7.9887, welch.DF, tol)
	assert.Greater(t, welch.P, student.P)
}

func TestIndependentTTest_NeedsTwoPerGroup(t *testing.T) {
	_, err := IndependentTTest([]float64{1}, []float64{2, 3}, true)
	assert.True(t, errors.Is(err, errors.CodeInsufficientData))

	_, err = IndependentTTest([]float64{1, 1}, []float64{2, 2}, true)
	assert.True(t, errors.Is(err, errors.CodeInsufficientData))
}

func TestPairedTTest(t *testing.T) {
	res, err := PairedTTest([]float64{1, 2, 3, 4, 9}, []float64{2, 3, 5, 5})
	require.NoError(t, err)
	assert.InDelta(t, -5.0, res.T, 1e-9)
	assert.Equal(t, 3.0, res.DF)
	assert.InDelta(t, 1.25, res.MeanDiff, 1e-9)
	assert.InDelta(t, 0.0154, res.P, tol)

	_, err = PairedTTest([]float64{1}, []float64{2})
	assert.True(t, errors.Is(err, errors.CodeInsufficientData))
}

func TestOneWayANOVA(t *testing.T) {
	res, err := OneWayANOVA([]float64{1, 2, 3}, []float64{4, 5, 6}, []float64{7, 8, 9})
	require.NoError(t, err)
	assert.InDelta(t, 27.0, res.F, 1e-9)
	assert.Equal(t, 2.0, res.DFBetween)
	assert.Equal(t, 6.0, res.DFWithin)
	// F(2, d) survival is (1 + 2f/d)^(-d/2)
	assert.InDelta(t, 0.001, res.P, 1e-6)

	_, err = OneWayANOVA([]float64{1, 2, 3})
	assert.True(t, errors.Is(err, errors.CodeInsufficientData))

	_, err = OneWayANOVA([]float64{1, 2}, []float64{3})
	assert.True(t, errors.Is(err, errors.CodeInsufficientData))
}

func TestCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, math.NaN()}
	y := []float64{2, 4, 5, 4, 5, 100}

	tests := []struct {
		method string
		want   float64
	}{
		{Pearson, 0.7746},
		{Spearman, 0.7379},
		{Kendall, 0.6708},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			res, err := Correlation(x, y, tt.method)
			require.NoError(t, err)
			assert.Equal(t, 5, res.N)
			assert.InDelta(t, tt.want, res.R, tol)
			assert.Greater(t, res.P, 0.0)
			assert.Less(t, res.P, 1.0)
		})
	}

	perfect, err := Correlation([]float64{1, 2, 3}, []float64{2, 4, 6}, "PEARSON")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, perfect.R, 1e-9)
	assert.InDelta(t, 0.0, perfect.P, 1e-6)
}

func TestCorrelation_Errors(t *testing.T) {
	_, err := Correlation([]float64{1, 2}, []float64{1, 2}, "cosine")
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))

	_, err = Correlation([]float64{1, math.NaN()}, []float64{1, 2}, Pearson)
	assert.True(t, errors.Is(err, errors.CodeInsufficientData))

	_, err = Correlation([]float64{1, 1, 1}, []float64{1, 2, 3}, Spearman)
	assert.True(t, errors.Is(err, errors.CodeInsufficientData))
}

func TestCorrelations(t *testing.T) {
	tb := table.New(
		[]string{"a", "b", "label", "c"},
		[][]string{
			{"1", "2", "x", "5"},
			{"2", "4", "y", "3"},
			{"3", "6", "z", "1"},
		},
	)

	m, err := Correlations(tb, nil, "")
	require.NoError(t, err)
	assert.Equal(t, Pearson, m.Method)
	assert.Equal(t, []string{"a", "b", "c"}, m.Columns)
	assert.Equal(t, 1.0, m.At(1, 1))
	assert.InDelta(t, 1.0, m.At(0, 1), 1e-9)
	assert.InDelta(t, -1.0, m.At(0, 2), 1e-9)
	assert.Equal(t, m.At(2, 1), m.At(1, 2))

	_, err = Correlations(tb, []string{"a"}, Pearson)
	assert.True(t, errors.Is(err, errors.CodeInsufficientData))

	_, err = Correlations(tb, []string{"a", "missing"}, Pearson)
	assert.True(t, errors.Is(err, errors.CodeColumnNotFound))
}

func TestNormalityTest(t *testing.T) {
	exact, err := NormalityTest([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, exact.W, 1e-9)
	assert.InDelta(t, 1.0, exact.P, 1e-9)
	assert.True(t, exact.IsNormal)

	// body weights from Shapiro and Wilk (1965)
	weights := []float64{148, 154, 158, 160, 161, 162, 166, 170, 182, 195, 236}
	res, err := NormalityTest(weights)
	require.NoError(t, err)
	assert.InDelta(t, 0.7888, res.W, tol)
	assert.InDelta(t, 0.0067, res.P, tol)
	assert.False(t, res.IsNormal)

	uniform := make([]float64, 20)
	for i := range uniform {
		uniform[i] = float64(i + 1)
	}
	res, err = NormalityTest(uniform)
	require.NoError(t, err)
	assert.InDelta(t, 0.9604, res.W, tol)
	assert.InDelta(t, 0.5514, res.P, 0.01)
	assert.True(t, res.IsNormal)
}

func TestNormalityTest_Errors(t *testing.T) {
	_, err := NormalityTest([]float64{1, 2})
	assert.True(t, errors.Is(err, errors.CodeInsufficientData))

	_, err = NormalityTest([]float64{4, 4, 4, 4})
	assert.True(t, errors.Is(err, errors.CodeInsufficientData))

	_, err = NormalityTest(make([]float64, 5001))
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))
}

func TestRank_AveragesTies(t *testing.T) {
	assert.Equal(t, []float64{1, 2.5, 4.5, 2.5, 4.5}, rank([]float64{2, 4, 5, 4, 5}))
}
