package stats

import (
	"paperkit/internal/errors"

	"gonum.org/v1/gonum/stat/distuv"
)

// ANOVAResult is the outcome of a one-way analysis of variance
type ANOVAResult struct {
	F         float64 `json:"f_statistic"`
	P         float64 `json:"p_value"`
	DFBetween float64 `json:"df_between"`
	DFWithin  float64 `json:"df_within"`
}

// OneWayANOVA tests whether the group means are equal
func OneWayANOVA(groups ...[]float64) (*ANOVAResult, error) {
	if len(groups) < 2 {
		return nil, errors.InsufficientData("ANOVA needs at least 2 groups")
	}

	clean := make([][]float64, len(groups))
	var all []float64
	for i, g := range groups {
		clean[i] = dropNaN(g)
		if err := requireN(clean[i], 2, "ANOVA group"); err != nil {
			return nil, err
		}
		all = append(all, clean[i]...)
	}

	grand := mean(all)
	var ssb, ssw float64
	for _, g := range clean {
		m := mean(g)
		ssb += float64(len(g)) * (m - grand) * (m - grand)
		for _, x := range g {
			ssw += (x - m) * (x - m)
		}
	}

	k, n := float64(len(clean)), float64(len(all))
	res := &ANOVAResult{DFBetween: k - 1, DFWithin: n - k}
	if ssw == 0 {
		return nil, errors.InsufficientData("ANOVA is undefined when every group has zero variance")
	}
	res.F = (ssb / res.DFBetween) / (ssw / res.DFWithin)
	res.P = distuv.F{D1: res.DFBetween, D2: res.DFWithin}.Survival(res.F)
	return res, nil
}
