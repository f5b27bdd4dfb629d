package stats

import (
	"math"

	"paperkit/internal/errors"

	"gonum.org/v1/gonum/stat/distuv"
)

// TTestResult is the outcome of a two-sample or paired t-test
type TTestResult struct {
	Method   string  `json:"method"`
	T        float64 `json:"t_statistic"`
	P        float64 `json:"p_value"`
	DF       float64 `json:"df"`
	CohensD  float64 `json:"cohens_d,omitempty"`
	MeanA    float64 `json:"mean_a"`
	MeanB    float64 `json:"mean_b"`
	MeanDiff float64 `json:"mean_diff,omitempty"`
}

// Significant reports whether p falls below alpha
func (r *TTestResult) Significant(alpha float64) bool {
	return r.P < alpha
}

// IndependentTTest compares the means of two independent samples. With
// equalVar it is Student's test on the pooled variance, otherwise Welch's
// test with Welch-Satterthwaite degrees of freedom. Cohen's d always uses
// the pooled standard deviation.
func IndependentTTest(a, b []float64, equalVar bool) (*TTestResult, error) {
	a, b = dropNaN(a), dropNaN(b)
	if err := requireN(a, 2, "t-test group 1"); err != nil {
		return nil, err
	}
	if err := requireN(b, 2, "t-test group 2"); err != nil {
		return nil, err
	}

	n1, n2 := float64(len(a)), float64(len(b))
	m1, m2 := mean(a), mean(b)
	v1, v2 := sampleVariance(a), sampleVariance(b)
	pooled := ((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2)

	res := &TTestResult{MeanA: m1, MeanB: m2, MeanDiff: m1 - m2}
	var se float64
	if equalVar {
		res.Method = "student"
		se = math.Sqrt(pooled * (1/n1 + 1/n2))
		res.DF = n1 + n2 - 2
	} else {
		res.Method = "welch"
		q1, q2 := v1/n1, v2/n2
		se = math.Sqrt(q1 + q2)
		res.DF = (q1 + q2) * (q1 + q2) / (q1*q1/(n1-1) + q2*q2/(n2-1))
	}
	if se == 0 {
		return nil, errors.InsufficientData("t-test is undefined when both groups have zero variance")
	}

	res.T = (m1 - m2) / se
	res.P = twoTailedT(res.T, res.DF)
	if pooled > 0 {
		res.CohensD = (m1 - m2) / math.Sqrt(pooled)
	}
	return res, nil
}

// PairedTTest tests the mean of before-after differences against zero. The
// series are truncated to the shorter one and pairs with a missing side are
// dropped. MeanDiff is reported as after minus before.
func PairedTTest(before, after []float64) (*TTestResult, error) {
	b, a := pairwiseComplete(before, after)
	if err := requireN(b, 2, "paired t-test"); err != nil {
		return nil, err
	}

	diffs := make([]float64, len(b))
	for i := range b {
		diffs[i] = b[i] - a[i]
	}
	n := float64(len(diffs))
	md := mean(diffs)
	se := math.Sqrt(sampleVariance(diffs)) / math.Sqrt(n)
	if se == 0 {
		return nil, errors.InsufficientData("paired t-test is undefined when all differences are equal")
	}

	res := &TTestResult{
		Method:   "paired",
		T:        md / se,
		DF:       n - 1,
		MeanA:    mean(b),
		MeanB:    mean(a),
		MeanDiff: -md,
	}
	res.P = twoTailedT(res.T, res.DF)
	return res, nil
}

func twoTailedT(t, df float64) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return math.Min(1, 2*dist.Survival(math.Abs(t)))
}
