package stats

import (
	"math"
	"strings"

	"paperkit/domain/table"
	"paperkit/internal/errors"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Correlation methods
const (
	Pearson  = "pearson"
	Spearman = "spearman"
	Kendall  = "kendall"
)

// CorrelationResult is a correlation coefficient with its two-tailed p-value
type CorrelationResult struct {
	Method string  `json:"method"`
	R      float64 `json:"r"`
	P      float64 `json:"p_value"`
	N      int     `json:"n"`
}

// CorrelationMatrix holds pairwise coefficients in column order
type CorrelationMatrix struct {
	Method  string      `json:"method"`
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// At returns the coefficient of columns i and j
func (m *CorrelationMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// Correlation measures the association of x and y on pairwise complete
// observations.
func Correlation(x, y []float64, method string) (*CorrelationResult, error) {
	method, err := normalizeMethod(method)
	if err != nil {
		return nil, err
	}
	xs, ys := pairwiseComplete(x, y)
	if err := requireN(xs, 2, "correlation"); err != nil {
		return nil, err
	}

	res := &CorrelationResult{Method: method, N: len(xs)}
	switch method {
	case Pearson:
		res.R = stat.Correlation(xs, ys, nil)
		res.P = correlationP(res.R, len(xs))
	case Spearman:
		res.R = stat.Correlation(rank(xs), rank(ys), nil)
		res.P = correlationP(res.R, len(xs))
	case Kendall:
		res.R, res.P = kendallTauB(xs, ys)
	}
	if math.IsNaN(res.R) {
		return nil, errors.InsufficientData("correlation is undefined for a constant series")
	}
	return res, nil
}

// Correlations computes the matrix for cols of t (default: all numeric
// columns). Pairs with fewer than 2 complete observations are NaN.
func Correlations(t *table.Table, cols []string, method string) (*CorrelationMatrix, error) {
	method, err := normalizeMethod(method)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		cols = t.NumericColumns()
	}
	if len(cols) < 2 {
		return nil, errors.InsufficientData("correlation matrix needs at least 2 numeric columns")
	}

	series := make([][]float64, len(cols))
	for i, c := range cols {
		if series[i], err = t.Floats(c); err != nil {
			return nil, err
		}
	}

	m := &CorrelationMatrix{Method: method, Columns: cols, Values: make([][]float64, len(cols))}
	for i := range cols {
		m.Values[i] = make([]float64, len(cols))
	}
	for i := range cols {
		m.Values[i][i] = 1
		for j := i + 1; j < len(cols); j++ {
			r := math.NaN()
			if c, err := Correlation(series[i], series[j], method); err == nil {
				r = c.R
			}
			m.Values[i][j], m.Values[j][i] = r, r
		}
	}
	return m, nil
}

func normalizeMethod(method string) (string, error) {
	method = strings.ToLower(strings.TrimSpace(method))
	switch method {
	case "":
		return Pearson, nil
	case Pearson, Spearman, Kendall:
		return method, nil
	default:
		return "", errors.InvalidInput("unknown correlation method: " + method)
	}
}

// correlationP converts r into a p-value through t = r*sqrt((n-2)/(1-r^2))
func correlationP(r float64, n int) float64 {
	if n < 3 {
		return 1
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	return twoTailedT(t, df)
}

// kendallTauB returns tau-b and its asymptotic p-value with tie correction
func kendallTauB(x, y []float64) (float64, float64) {
	n := len(x)
	var concordant, discordant, tiesX, tiesY float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := x[i] - x[j]
			dy := y[i] - y[j]
			switch {
			case dx == 0 && dy == 0:
			case dx == 0:
				tiesX++
			case dy == 0:
				tiesY++
			case (dx > 0) == (dy > 0):
				concordant++
			default:
				discordant++
			}
		}
	}

	denom := math.Sqrt((concordant + discordant + tiesX) * (concordant + discordant + tiesY))
	if denom == 0 {
		return math.NaN(), math.NaN()
	}
	s := concordant - discordant
	tau := s / denom

	nf := float64(n)
	tx1, tx2, tx3 := tieSums(x)
	ty1, ty2, ty3 := tieSums(y)
	variance := (nf*(nf-1)*(2*nf+5)-tx3-ty3)/18 +
		tx1*ty1/(2*nf*(nf-1))
	if n > 2 {
		variance += tx2 * ty2 / (9 * nf * (nf - 1) * (nf - 2))
	}
	if variance <= 0 {
		return tau, 1
	}
	z := s / math.Sqrt(variance)
	return tau, math.Min(1, 2*distuv.UnitNormal.Survival(math.Abs(z)))
}

// tieSums returns Σt(t-1), Σt(t-1)(t-2) and Σt(t-1)(2t+5) over tie groups
func tieSums(xs []float64) (float64, float64, float64) {
	counts := make(map[float64]float64)
	for _, x := range xs {
		counts[x]++
	}
	var s1, s2, s3 float64
	for _, t := range counts {
		s1 += t * (t - 1)
		s2 += t * (t - 1) * (t - 2)
		s3 += t * (t - 1) * (2*t + 5)
	}
	return s1, s2, s3
}
