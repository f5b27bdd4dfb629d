package stats

import (
	"math"

	"paperkit/internal/errors"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalityResult is the outcome of a Shapiro-Wilk test
type NormalityResult struct {
	W        float64 `json:"w_statistic"`
	P        float64 `json:"p_value"`
	IsNormal bool    `json:"is_normal"`
	N        int     `json:"n"`
}

var (
	// polynomial coefficients in u = 1/sqrt(n) for the two extreme weights
	swC1 = []float64{0, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}

	// p-value approximations for 4 <= n <= 11 (polynomials in n)
	swSmallGamma = []float64{-2.273, 0.459}
	swSmallMu    = []float64{0.5440, -0.39978, 0.025054, -6.714e-4}
	swSmallSigma = []float64{1.3822, -0.77857, 0.062767, -0.0020322}

	// p-value approximations for n >= 12 (polynomials in ln n)
	swLargeMu    = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swLargeSigma = []float64{-0.4803, -0.082676, 0.0030302}
)

// NormalityTest runs the Shapiro-Wilk test using Royston's approximation of
// the weights and of the W distribution. Samples of 3 to 5000 values.
func NormalityTest(xs []float64) (*NormalityResult, error) {
	data := dropNaN(xs)
	if err := requireN(data, 3, "Shapiro-Wilk test"); err != nil {
		return nil, err
	}
	if len(data) > 5000 {
		return nil, errors.InvalidInput("Shapiro-Wilk test supports at most 5000 observations")
	}

	x := sortedCopy(data)
	if x[0] == x[len(x)-1] {
		return nil, errors.InsufficientData("Shapiro-Wilk test is undefined for identical values")
	}

	n := len(x)
	a := shapiroWeights(n)

	m := mean(x)
	var num, ss float64
	for i, v := range x {
		num += a[i] * v
		ss += (v - m) * (v - m)
	}
	w := math.Min(1, num*num/ss)

	p := shapiroP(w, n)
	return &NormalityResult{W: w, P: p, IsNormal: p > 0.05, N: n}, nil
}

// shapiroWeights returns the antisymmetric coefficients a_1..a_n
func shapiroWeights(n int) []float64 {
	a := make([]float64, n)
	if n == 3 {
		a[0], a[2] = -math.Sqrt(0.5), math.Sqrt(0.5)
		return a
	}

	nf := float64(n)
	m := make([]float64, n)
	var mm float64
	for i := range m {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / (nf + 0.25))
		mm += m[i] * m[i]
	}

	u := 1 / math.Sqrt(nf)
	an := poly(swC1, u) + m[n-1]/math.Sqrt(mm)
	a[n-1], a[0] = an, -an

	first := 1
	eps := (mm - 2*m[n-1]*m[n-1]) / (1 - 2*an*an)
	if n > 5 {
		an1 := poly(swC2, u) + m[n-2]/math.Sqrt(mm)
		a[n-2], a[1] = an1, -an1
		first = 2
		eps = (mm - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) / (1 - 2*an*an - 2*an1*an1)
	}
	for i := first; i < n-first; i++ {
		a[i] = m[i] / math.Sqrt(eps)
	}
	return a
}

func shapiroP(w float64, n int) float64 {
	if n == 3 {
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		return math.Max(0, math.Min(1, p))
	}
	if w >= 1 {
		return 1
	}

	nf := float64(n)
	y := math.Log(1 - w)
	var z float64
	if n <= 11 {
		gamma := poly(swSmallGamma, nf)
		if y >= gamma {
			return 0
		}
		y = -math.Log(gamma - y)
		z = (y - poly(swSmallMu, nf)) / math.Exp(poly(swSmallSigma, nf))
	} else {
		ln := math.Log(nf)
		z = (y - poly(swLargeMu, ln)) / math.Exp(poly(swLargeSigma, ln))
	}
	return distuv.UnitNormal.Survival(z)
}

// poly evaluates c[0] + c[1]x + c[2]x^2 + ...
func poly(c []float64, x float64) float64 {
	var r float64
	for i := len(c) - 1; i >= 0; i-- {
		r = r*x + c[i]
	}
	return r
}
