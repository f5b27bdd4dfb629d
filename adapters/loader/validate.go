package loader

import (
	"math"

	"paperkit/domain/table"

	"github.com/montanaflynn/stats"
)

// Validation counts data-quality problems per numeric column
type Validation struct {
	MissingValues  map[string]int `json:"missing_values"`
	InfiniteValues map[string]int `json:"infinite_values"`
	Outliers       map[string]int `json:"outliers"`
}

// ValidateNumeric checks columns (default: every numeric column) for missing
// cells, infinities and values more than 3 standard deviations from the mean.
// Columns that do not exist or are not numeric are skipped.
func ValidateNumeric(t *table.Table, columns ...string) Validation {
	if len(columns) == 0 {
		columns = t.NumericColumns()
	}
	v := Validation{
		MissingValues:  make(map[string]int),
		InfiniteValues: make(map[string]int),
		Outliers:       make(map[string]int),
	}

	for _, col := range columns {
		values, err := t.Floats(col)
		if err != nil {
			continue
		}

		var (
			missing, infinite int
			finite            []float64
		)
		for _, x := range values {
			switch {
			case math.IsNaN(x):
				missing++
			case math.IsInf(x, 0):
				infinite++
			default:
				finite = append(finite, x)
			}
		}
		v.MissingValues[col] = missing
		v.InfiniteValues[col] = infinite
		v.Outliers[col] = countOutliers(finite)
	}
	return v
}

func countOutliers(values []float64) int {
	if len(values) < 2 {
		return 0
	}
	mean, _ := stats.Mean(values)
	sd, _ := stats.StandardDeviationSample(values)
	if sd == 0 || math.IsNaN(sd) {
		return 0
	}
	n := 0
	for _, x := range values {
		if math.Abs(x-mean) > 3*sd {
			n++
		}
	}
	return n
}
