package model

import "math"

// Bounds is the reported range of an interval-censored observation.
// Right = +Inf marks right censoring, Left == Right an exact observation.
type Bounds struct {
	Left  float64 `json:"l"`
	Right float64 `json:"r"`
}

func (b Bounds) IsExact() bool {
	return b.Left == b.Right
}

func (b Bounds) Valid() bool {
	if math.IsNaN(b.Left) || math.IsNaN(b.Right) {
		return false
	}
	return b.Left <= b.Right
}

// Contains reports whether the interval lies inside the observation's (Left, Right] range.
// A degenerate interval [x, x] lies inside an exact observation only when it equals it.
func (b Bounds) Contains(interval Interval) bool {
	if interval.IsSingleton() {
		if b.IsExact() {
			return b.Left == interval.Start
		}
		return b.Left < interval.Start && interval.Start <= b.Right
	}
	return b.Left <= interval.Start && interval.End <= b.Right
}

// Interval is one Turnbull equivalence interval [Start, End].
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (i Interval) IsSingleton() bool {
	return i.Start == i.End
}

func (i Interval) IsBounded() bool {
	return !math.IsInf(i.Start, 0) && !math.IsInf(i.End, 0)
}

func (i Interval) Mid() float64 {
	return (i.Start + i.End) / 2
}

func ZipBounds(left, right []float64) []Bounds {
	n := min(len(left), len(right))
	res := make([]Bounds, n)
	for i := 0; i < n; i++ {
		res[i] = Bounds{Left: left[i], Right: right[i]}
	}
	return res
}
