package testkit

import (
	"testing"

	"paperkit/adapters/stats"
	"paperkit/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleData_Shape(t *testing.T) {
	tb := SampleData(100, 42)

	rows, cols := tb.Shape()
	assert.Equal(t, 100, rows)
	assert.Equal(t, 4, cols)
	assert.Equal(t, []string{ColumnGroup, ColumnMeasurement1, ColumnMeasurement2, ColumnTimePoint}, tb.Columns)
	assert.Equal(t, table.KindString, tb.Kind(ColumnGroup))
	assert.Equal(t, []string{ColumnMeasurement1, ColumnMeasurement2, ColumnTimePoint}, tb.NumericColumns())

	times, err := tb.Floats(ColumnTimePoint)
	require.NoError(t, err)
	assert.Equal(t, 0.0, times[0])
	assert.Equal(t, 99.0, times[99])
}

func TestSampleData_Deterministic(t *testing.T) {
	a := SampleData(50, 7)
	b := SampleData(50, 7)
	c := SampleData(50, 8)

	assert.Equal(t, a.Rows, b.Rows)
	assert.NotEqual(t, a.Rows, c.Rows)
}

func TestSampleData_Distributions(t *testing.T) {
	tb := SampleData(2000, 42)

	groups, err := tb.Unique(ColumnGroup)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, groups)

	m1, err := tb.Floats(ColumnMeasurement1)
	require.NoError(t, err)
	s1, err := stats.Describe(m1)
	require.NoError(t, err)
	assert.InDelta(t, 10, s1.Mean, 0.3)
	assert.InDelta(t, 2, s1.Std, 0.3)

	m2, err := tb.Floats(ColumnMeasurement2)
	require.NoError(t, err)
	s2, err := stats.Describe(m2)
	require.NoError(t, err)
	assert.Greater(t, s2.Min, 0.0)
	// median of LogNormal(2, 0.5) is e^2
	assert.InDelta(t, 7.389, s2.Median, 0.6)
}

func TestSampleGenerator_CustomGroups(t *testing.T) {
	cfg := DefaultSampleConfig()
	cfg.Size = 30
	cfg.Groups = []string{"control", "treatment"}

	tb := NewSampleGenerator(cfg).Generate()
	groups, err := tb.Unique(ColumnGroup)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"control", "treatment"}, groups)

	assert.Equal(t, 0, SampleData(-5, 1).Len())
}
