package special

import (
	"fmt"

	"github.com/uyouii/ndimpute/common"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LinearFit fits y = intercept + slope*x by ordinary least squares.
func LinearFit(x, y []float64) (slope, intercept float64, err error) {
	return WeightedLinearFit(x, y, nil)
}

// WeightedLinearFit is LinearFit with case weights, nil weights means equal weights.
func WeightedLinearFit(x, y, weights []float64) (slope, intercept float64, err error) {
	if len(x) != len(y) || (weights != nil && len(weights) != len(x)) {
		return 0, 0, fmt.Errorf("linear fit: %w", common.ErrorLengthMismatch)
	}
	if len(x) < 2 {
		return 0, 0, fmt.Errorf("linear fit needs 2 points, got %d: %w", len(x), common.ErrorInsufficientData)
	}
	if floats.Max(x) == floats.Min(x) {
		return 0, 0, fmt.Errorf("linear fit: constant regressor: %w", common.ErrorFitFailed)
	}
	intercept, slope = stat.LinearRegression(x, y, weights, false)
	return slope, intercept, nil
}
