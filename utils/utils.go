package utils

import "math"

func FormatFloat(f float64, round int32) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	p := math.Pow(10, float64(round))
	return math.Round(f*p) / p
}

func CopyFloats(x []float64) []float64 {
	res := make([]float64, len(x))
	copy(res, x)
	return res
}

// AllFinite reports whether x holds no NaN or infinite value.
func AllFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func AllPositive(x []float64) bool {
	for _, v := range x {
		if !(v > 0) {
			return false
		}
	}
	return true
}

func Reciprocal(x []float64) []float64 {
	res := make([]float64, len(x))
	for i, v := range x {
		res[i] = 1 / v
	}
	return res
}

func Negate(x []float64) []float64 {
	res := make([]float64, len(x))
	for i, v := range x {
		res[i] = -v
	}
	return res
}
