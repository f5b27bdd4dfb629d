package stats

import (
	"math"

	"paperkit/internal/errors"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary holds the descriptive statistics of one variable
type Summary struct {
	N       int     `json:"n"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	Std     float64 `json:"std"`
	SEM     float64 `json:"sem"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Q1      float64 `json:"q25"`
	Q3      float64 `json:"q75"`
	IQR     float64 `json:"iqr"`
	CILower float64 `json:"ci_lower"`
	CIUpper float64 `json:"ci_upper"`
}

// Describe computes count, location, spread and the 95% confidence interval
// of the mean. Std, SEM and the interval are NaN for a single observation.
func Describe(xs []float64) (*Summary, error) {
	if len(xs) == 0 {
		return nil, errors.InsufficientData("cannot compute statistics on empty data")
	}
	data := dropNaN(xs)
	if len(data) == 0 {
		return nil, errors.InsufficientData("cannot compute statistics: all values are missing")
	}

	sorted := sortedCopy(data)
	median, _ := mstats.Median(data)
	s := &Summary{
		N:      len(data),
		Mean:   mean(data),
		Median: median,
		Std:    math.Sqrt(sampleVariance(data)),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     quantile(sorted, 0.25),
		Q3:     quantile(sorted, 0.75),
	}
	s.IQR = s.Q3 - s.Q1
	s.SEM = s.Std / math.Sqrt(float64(s.N))

	s.CILower, s.CIUpper = math.NaN(), math.NaN()
	if s.N >= 2 {
		s.CILower, s.CIUpper = meanInterval(s.Mean, s.SEM, s.N, 0.95)
	}
	return s, nil
}

// ConfidenceInterval returns the Student t interval for the mean of xs
func ConfidenceInterval(xs []float64, level float64) (float64, float64, error) {
	if level <= 0 || level >= 1 || math.IsNaN(level) {
		return 0, 0, errors.InvalidInput("confidence level must lie between 0 and 1")
	}
	data := dropNaN(xs)
	if err := requireN(data, 2, "confidence interval"); err != nil {
		return 0, 0, err
	}
	sem := math.Sqrt(sampleVariance(data)) / math.Sqrt(float64(len(data)))
	lo, hi := meanInterval(mean(data), sem, len(data), level)
	return lo, hi, nil
}

func meanInterval(m, sem float64, n int, level float64) (float64, float64) {
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	h := t.Quantile((1+level)/2) * sem
	return m - h, m + h
}
