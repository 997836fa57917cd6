package ros

import (
	"sort"

	"github.com/uyouii/ndimpute/model"
	"github.com/uyouii/ndimpute/special"
	"github.com/uyouii/ndimpute/utils"
)

func plottingPositions(values []float64, censored []bool, scheme model.PlottingPosition) ([]float64, error) {
	switch scheme {
	case model.KaplanMeier:
		return kaplanMeierPositions(values, censored)
	case model.SimpleRank:
		return rankPositions(values), nil
	}
	return nil, errUnknownScheme(scheme)
}

// kaplanMeierPositions negates the data so left censoring becomes right censoring,
// then reads each point's probability off the survival curve at its own negated value.
func kaplanMeierPositions(values []float64, censored []bool) ([]float64, error) {
	n := float64(len(values))
	negated := utils.Negate(values)
	events := make([]bool, len(censored))
	for i, c := range censored {
		events[i] = !c
	}

	curve, err := special.KaplanMeier(negated, events)
	if err != nil {
		return nil, err
	}

	pp := make([]float64, len(values))
	for i, t := range negated {
		// after rescaling p < 1, only an exact 0 needs clipping
		p := curve.At(t) * n / (n + 1)
		if p == 0 {
			p = 0.5 / (n + 1)
		}
		pp[i] = p
	}
	return pp, nil
}

// rankPositions ranks censored and observed points jointly, rank/(n+1).
func rankPositions(values []float64) []float64 {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return values[order[i]] < values[order[j]]
	})

	pp := make([]float64, n)
	for rank, idx := range order {
		pp[idx] = float64(rank+1) / float64(n+1)
	}
	return pp
}

func zScores(pp []float64) []float64 {
	z := make([]float64, len(pp))
	for i, p := range pp {
		z[i] = special.Probit(p)
	}
	return z
}
