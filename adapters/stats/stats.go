// Package stats implements the descriptive and inferential statistics used
// by the analysis commands. NaN values are treated as missing throughout.
package stats

import (
	"math"
	"sort"

	"paperkit/internal/errors"

	mstats "github.com/montanaflynn/stats"
)

// dropNaN returns the non-missing values of xs
func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// pairwiseComplete keeps the positions where neither x nor y is missing
func pairwiseComplete(x, y []float64) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}

func requireN(xs []float64, n int, what string) error {
	if len(xs) < n {
		return errors.Newf(errors.CodeInsufficientData, "%s needs at least %d values, got %d", what, n, len(xs))
	}
	return nil
}

func mean(xs []float64) float64 {
	m, _ := mstats.Mean(xs)
	return m
}

func sampleVariance(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	v, _ := mstats.SampleVariance(xs)
	return v
}

// quantile uses linear interpolation between closest ranks (type 7)
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Quantile returns the q-th quantile of the non-missing values of xs
func Quantile(xs []float64, q float64) float64 {
	return quantile(sortedCopy(dropNaN(xs)), q)
}

func sortedCopy(xs []float64) []float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	return s
}

// rank assigns 1-based ranks, averaging ties
func rank(xs []float64) []float64 {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	ranks := make([]float64, len(xs))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && xs[idx[j+1]] == xs[idx[i]] {
			j++
		}
		r := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = r
		}
		i = j + 1
	}
	return ranks
}
