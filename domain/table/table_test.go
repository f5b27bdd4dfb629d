package table

import (
	"bytes"
	"math"
	"testing"

	"paperkit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	return New(
		[]string{" group ", "score", "note"},
		[][]string{
			{"A", "1.5", "x"},
			{"B", "2.5", ""},
			{"A", "", "y"},
			{"C", "4", "z"},
			{"B", "NaN"},
		},
	)
}

func TestNew_NormalizesRows(t *testing.T) {
	tb := sampleTable()

	rows, cols := tb.Shape()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []string{"group", "score", "note"}, tb.Columns)
	assert.Equal(t, []string{"B", "NaN", ""}, tb.Rows[4])
}

func TestKindInference(t *testing.T) {
	tb := sampleTable()

	assert.Equal(t, KindString, tb.Kind("group"))
	assert.Equal(t, KindNumeric, tb.Kind("score"))
	assert.Equal(t, []string{"score"}, tb.NumericColumns())
}

func TestRequire_ListsMissingColumns(t *testing.T) {
	tb := sampleTable()

	require.NoError(t, tb.Require("group", "score"))

	err := tb.Require("group", "height", "weight")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeColumnNotFound))
	assert.Contains(t, err.Error(), "[height weight]")
}

func TestFloats(t *testing.T) {
	tb := sampleTable()

	scores, err := tb.Floats("score")
	require.NoError(t, err)
	assert.Equal(t, 1.5, scores[0])
	assert.True(t, math.IsNaN(scores[2]))
	assert.True(t, math.IsNaN(scores[4]))

	_, err = tb.Floats("group")
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))

	_, err = tb.Floats("missing")
	assert.True(t, errors.Is(err, errors.CodeColumnNotFound))
}

func TestUniqueAndFilter(t *testing.T) {
	tb := sampleTable()

	groups, err := tb.Unique("group")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, groups)

	onlyA, err := tb.Filter("group", "A")
	require.NoError(t, err)
	assert.Equal(t, 2, onlyA.Len())
}

func TestGroupMean(t *testing.T) {
	tb := sampleTable()

	means, err := tb.GroupMean([]string{"group"}, "score")
	require.NoError(t, err)
	assert.Equal(t, []string{"group", "score"}, means.Columns)
	assert.Equal(t, [][]string{{"A", "1.5"}, {"B", "2.5"}, {"C", "4"}}, means.Rows)
}

func TestSelectHeadAndCSV(t *testing.T) {
	tb := sampleTable()

	sel, err := tb.Select("score", "group")
	require.NoError(t, err)
	head := sel.Head(2)

	var buf bytes.Buffer
	require.NoError(t, head.WriteCSV(&buf))
	assert.Equal(t, "score,group\n1.5,A\n2.5,B\n", buf.String())

	assert.Equal(t, 5, tb.Head(100).Len())
}
