package interval

import (
	"context"
	"fmt"
	"math"

	"github.com/uyouii/ndimpute/common"
	"github.com/uyouii/ndimpute/model"
	"github.com/uyouii/ndimpute/special"
	"github.com/uyouii/ndimpute/turnbull"
	"github.com/uyouii/ndimpute/utils"
	"go.uber.org/zap"
)

const (
	minRegressionPoints = 2

	// below this z-space mass the truncated mean is numerically meaningless
	minTruncatedMass = 1e-9
)

// Estimate holds the imputed values together with the fitted distribution line
// value = Intercept + Slope*z in transformed space.
type Estimate struct {
	Values    []float64          `json:"values"`
	Turnbull  *turnbull.Estimate `json:"turnbull"`
	Slope     float64            `json:"slope"`
	Intercept float64            `json:"intercept"`
}

// Impute imputes interval censored data by ROS with plotting positions taken from the
// Turnbull estimate, every observation receives the expected value of the fitted
// distribution truncated to its own bounds.
func Impute(ctx context.Context, bounds []model.Bounds, dist model.Distribution, opts turnbull.Options) (*Estimate, error) {
	logger := utils.GetLogger(ctx)

	if err := validate(bounds, dist); err != nil {
		return nil, err
	}

	est, err := turnbull.Fit(ctx, bounds, opts)
	if err != nil {
		return nil, err
	}

	slope, intercept, err := fitLine(est, dist)
	if err != nil {
		return nil, err
	}
	logger.Debug("interval line fitted", zap.Float64("slope", slope), zap.Float64("intercept", intercept),
		zap.String("dist", dist.String()))

	values := make([]float64, len(bounds))
	for i, b := range bounds {
		if b.IsExact() {
			values[i] = b.Left
			continue
		}
		zl := toZ(b.Left, slope, intercept, dist)
		zr := toZ(b.Right, slope, intercept, dist)
		values[i] = backward(intercept+slope*expectedZ(zl, zr), dist)
	}

	return &Estimate{
		Values:    values,
		Turnbull:  est,
		Slope:     slope,
		Intercept: intercept,
	}, nil
}

// fitLine regresses the transformed interval midpoints on the probit of the mid-mass
// plotting positions cumsum(p) - p/2, weighted by mass.
func fitLine(est *turnbull.Estimate, dist model.Distribution) (float64, float64, error) {
	cum := est.CumulativeMass()

	x, y, w := []float64{}, []float64{}, []float64{}
	for j, interval := range est.Intervals {
		p := est.Mass[j]
		if p <= 0 || !interval.IsBounded() {
			continue
		}
		mid := interval.Mid()
		if dist == model.Lognormal && mid <= 0 {
			continue
		}
		pp := cum[j] - p/2
		if pp <= 0 || pp >= 1 {
			continue
		}
		x = append(x, special.Probit(pp))
		y = append(y, forward(mid, dist))
		w = append(w, p)
	}

	if len(x) < minRegressionPoints {
		return 0, 0, common.NewValidationError("interval", common.ErrorInsufficientData,
			"need at least %d bounded intervals with mass to fit the regression, got %d", minRegressionPoints, len(x))
	}

	slope, intercept, err := special.WeightedLinearFit(x, y, w)
	if err != nil {
		return 0, 0, fmt.Errorf("interval regression: %w", err)
	}
	if !(slope > 0) {
		return 0, 0, fmt.Errorf("interval regression slope %v: %w", slope, common.ErrorFitFailed)
	}
	return slope, intercept, nil
}

func expectedZ(zl, zr float64) float64 {
	ez, mass := special.TruncatedMean(zl, zr)
	if mass >= minTruncatedMass {
		return ez
	}
	switch {
	case !math.IsInf(zl, 0) && !math.IsInf(zr, 0):
		return (zl + zr) / 2
	case math.IsInf(zr, 1) && !math.IsInf(zl, 0):
		return zl + 1
	case math.IsInf(zl, -1) && !math.IsInf(zr, 0):
		return zr - 1
	}
	return 0
}

func toZ(v, slope, intercept float64, dist model.Distribution) float64 {
	if math.IsInf(v, 0) {
		return v
	}
	if dist == model.Lognormal && v <= 0 {
		return math.Inf(-1)
	}
	return (forward(v, dist) - intercept) / slope
}

func forward(v float64, dist model.Distribution) float64 {
	if dist == model.Lognormal {
		return math.Log(v)
	}
	return v
}

func backward(v float64, dist model.Distribution) float64 {
	if dist == model.Lognormal {
		return math.Exp(v)
	}
	return v
}

func validate(bounds []model.Bounds, dist model.Distribution) error {
	switch dist {
	case model.Lognormal:
		for i, b := range bounds {
			if math.IsNaN(b.Right) {
				continue
			}
			if !(b.Right > 0) {
				return common.NewValidationError("interval", common.ErrorNonPositive,
					"observation %d has upper bound %v, lognormal requires > 0", i, b.Right)
			}
		}
	case model.Normal:
	default:
		return common.NewValidationError("interval", common.ErrorUnknownOption, "distribution %v", dist)
	}
	return nil
}
