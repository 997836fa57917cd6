package turnbull

import (
	"math"
	"sort"

	"github.com/uyouii/ndimpute/model"
)

// equivalenceIntervals builds the candidate grid from the sorted distinct finite endpoints
// and keeps the candidates that lie inside at least one observation.
func equivalenceIntervals(bounds []model.Bounds) []model.Interval {
	endpoints := finiteEndpoints(bounds)
	if len(endpoints) == 0 {
		return nil
	}

	candidates := make([]model.Interval, 0, 2*len(endpoints))
	for i := 0; i+1 < len(endpoints); i++ {
		candidates = append(candidates, model.Interval{Start: endpoints[i], End: endpoints[i+1]})
	}

	exact := map[float64]bool{}
	hasHead, hasTail := false, false
	for _, b := range bounds {
		if b.IsExact() {
			exact[b.Left] = true
		}
		hasHead = hasHead || math.IsInf(b.Left, -1)
		hasTail = hasTail || math.IsInf(b.Right, 1)
	}
	for x := range exact {
		candidates = append(candidates, model.Interval{Start: x, End: x})
	}
	if hasHead {
		candidates = append(candidates, model.Interval{Start: math.Inf(-1), End: endpoints[0]})
	}
	if hasTail {
		candidates = append(candidates, model.Interval{Start: endpoints[len(endpoints)-1], End: math.Inf(1)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].End < candidates[j].End
	})

	res := []model.Interval{}
	for _, c := range candidates {
		for _, b := range bounds {
			if b.Contains(c) {
				res = append(res, c)
				break
			}
		}
	}
	return res
}

func finiteEndpoints(bounds []model.Bounds) []float64 {
	seen := map[float64]bool{}
	res := []float64{}
	for _, b := range bounds {
		for _, v := range []float64{b.Left, b.Right} {
			if math.IsInf(v, 0) || seen[v] {
				continue
			}
			seen[v] = true
			res = append(res, v)
		}
	}
	sort.Float64s(res)
	return res
}

// containment is the n x m 0/1 matrix, alpha[i][j] = 1 when interval j lies inside observation i.
func containment(bounds []model.Bounds, intervals []model.Interval) [][]float64 {
	alpha := make([][]float64, len(bounds))
	for i, b := range bounds {
		alpha[i] = make([]float64, len(intervals))
		for j, interval := range intervals {
			if b.Contains(interval) {
				alpha[i][j] = 1
			}
		}
	}
	return alpha
}
