package special

import (
	"fmt"
	"math"
	"sort"

	"github.com/uyouii/ndimpute/common"
)

// SurvivalCurve is a Kaplan-Meier product-limit estimate for right censored data.
type SurvivalCurve struct {
	// distinct event times, sorted
	times []float64

	// events at each time in times
	nEvents []float64

	// number at risk just before each time in times
	nRisk []float64

	survProb []float64
}

// KaplanMeier estimates the survival function of right censored data.
// events[i] is true when times[i] is an exact event time, false when it is a censoring time.
func KaplanMeier(times []float64, events []bool) (*SurvivalCurve, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("kaplan-meier: empty data: %w", common.ErrorInvalidValue)
	}
	if len(times) != len(events) {
		return nil, fmt.Errorf("kaplan-meier: %w", common.ErrorLengthMismatch)
	}

	eventCnt := make(map[float64]float64)
	total := make(map[float64]float64)
	for i, t := range times {
		if math.IsNaN(t) {
			return nil, fmt.Errorf("kaplan-meier: NaN time at %d: %w", i, common.ErrorInvalidValue)
		}
		if events[i] {
			eventCnt[t]++
		}
		total[t]++
	}

	sc := &SurvivalCurve{}
	sc.eventStats(eventCnt, total)
	sc.compress()
	sc.fit()
	return sc, nil
}

func rollback(x []float64) {
	var z float64
	for i := len(x) - 1; i >= 0; i-- {
		z += x[i]
		x[i] = z
	}
}

func (sc *SurvivalCurve) eventStats(eventCnt, total map[float64]float64) {
	sc.times = make([]float64, 0, len(total))
	for t := range total {
		sc.times = append(sc.times, t)
	}
	sort.Float64s(sc.times)

	sc.nEvents = make([]float64, len(sc.times))
	sc.nRisk = make([]float64, len(sc.times))
	for i, t := range sc.times {
		sc.nEvents[i] = eventCnt[t]
		sc.nRisk[i] = total[t]
	}
	rollback(sc.nRisk)
}

// compress drops times without events, the last time is always kept.
func (sc *SurvivalCurve) compress() {
	var ix []int
	for i := range sc.times {
		if sc.nEvents[i] > 0 || i == len(sc.times)-1 {
			ix = append(ix, i)
		}
	}
	for i, j := range ix {
		sc.times[i] = sc.times[j]
		sc.nEvents[i] = sc.nEvents[j]
		sc.nRisk[i] = sc.nRisk[j]
	}
	sc.times = sc.times[:len(ix)]
	sc.nEvents = sc.nEvents[:len(ix)]
	sc.nRisk = sc.nRisk[:len(ix)]
}

func (sc *SurvivalCurve) fit() {
	sc.survProb = make([]float64, len(sc.times))
	x := 1.0
	for i := range sc.times {
		x *= 1 - sc.nEvents[i]/sc.nRisk[i]
		sc.survProb[i] = x
	}
}

// At evaluates the right-continuous step function S(t) = P(T > t).
func (sc *SurvivalCurve) At(t float64) float64 {
	idx := sort.Search(len(sc.times), func(i int) bool { return sc.times[i] > t }) - 1
	if idx < 0 {
		return 1
	}
	return sc.survProb[idx]
}

func (sc *SurvivalCurve) Times() []float64 {
	return sc.times
}

func (sc *SurvivalCurve) NumRisk() []float64 {
	return sc.nRisk
}

func (sc *SurvivalCurve) SurvProb() []float64 {
	return sc.survProb
}
