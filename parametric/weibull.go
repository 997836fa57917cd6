package parametric

import (
	"context"
	"fmt"
	"math"

	"github.com/uyouii/ndimpute/common"
	"github.com/uyouii/ndimpute/model"
	"github.com/uyouii/ndimpute/special"
	"github.com/uyouii/ndimpute/utils"
	"go.uber.org/zap"
)

// ConditionalMeanAbove is E[T | T > c] = mean * Q(1+1/k, (c/scale)^k) / S(c).
// ok is false when S(c) is below DegenerateTailThreshold.
func ConditionalMeanAbove(p model.WeibullParams, c float64) (value float64, ok bool) {
	z := math.Pow(c/p.Scale, p.Shape)
	surv := math.Exp(-z)
	if surv < DegenerateTailThreshold {
		return c, false
	}
	return p.Mean() * special.GammaIncUpper(1+1/p.Shape, z) / surv, true
}

// ConditionalMeanBelow is E[T | T < l] = mean * P(1+1/k, (l/scale)^k) / F(l).
// ok is false when F(l) is below DegenerateTailThreshold.
func ConditionalMeanBelow(p model.WeibullParams, l float64) (value float64, ok bool) {
	z := math.Pow(l/p.Scale, p.Shape)
	cdf := -math.Expm1(-z)
	if cdf < DegenerateTailThreshold {
		return l, false
	}
	return p.Mean() * special.GammaIncLower(1+1/p.Shape, z) / cdf, true
}

// ConditionalMeans replaces every censored value with its truncated first moment under p.
// It returns the imputed slice and the number of points that used the fallback policy.
func ConditionalMeans(p model.WeibullParams, values []float64, statuses []model.Status, policy Policy) ([]float64, int) {
	res := utils.CopyFloats(values)
	fallbacks := 0
	for i, v := range values {
		var (
			mean float64
			ok   bool
		)
		switch statuses[i] {
		case model.RightCensored:
			mean, ok = ConditionalMeanAbove(p, v)
			if !ok {
				mean = policy.Right.apply(v)
			}
		case model.LeftCensored:
			mean, ok = ConditionalMeanBelow(p, v)
			if !ok {
				mean = policy.Left.apply(v)
			}
		default:
			continue
		}
		if !ok {
			fallbacks++
		}
		res[i] = mean
	}
	return res, fallbacks
}

// Estimate is the result of one parametric imputation.
type Estimate struct {
	Values    []float64           `json:"values"`
	Params    model.WeibullParams `json:"params"`
	Fallbacks int                 `json:"fallbacks"`
}

// Impute fits a Weibull model to the full sample, exact and censored points together,
// then imputes every censored point by its conditional mean.
func Impute(ctx context.Context, values []float64, statuses []model.Status, policy Policy) (*Estimate, error) {
	logger := utils.GetLogger(ctx)

	if err := validate(values, statuses); err != nil {
		return nil, err
	}

	params, err := special.FitWeibull(values, statuses)
	if err != nil {
		return nil, fmt.Errorf("parametric: %w", err)
	}
	logger.Debug("weibull fitted", zap.Float64("shape", params.Shape), zap.Float64("scale", params.Scale))

	imputed, fallbacks := ConditionalMeans(params, values, statuses, policy)
	if fallbacks > 0 {
		logger.Warn("degenerate weibull tail, fallback used", zap.Int("count", fallbacks),
			zap.String("left", policy.Left.String()), zap.String("right", policy.Right.String()))
	}

	return &Estimate{
		Values:    imputed,
		Params:    params,
		Fallbacks: fallbacks,
	}, nil
}

// ImputeRight accepts only Observed and RightCensored statuses.
func ImputeRight(ctx context.Context, values []float64, statuses []model.Status, policy Policy) (*Estimate, error) {
	if err := checkSide(statuses, model.RightCensored); err != nil {
		return nil, err
	}
	return Impute(ctx, values, statuses, policy)
}

// ImputeLeft accepts only Observed and LeftCensored statuses.
func ImputeLeft(ctx context.Context, values []float64, statuses []model.Status, policy Policy) (*Estimate, error) {
	if err := checkSide(statuses, model.LeftCensored); err != nil {
		return nil, err
	}
	return Impute(ctx, values, statuses, policy)
}

func validate(values []float64, statuses []model.Status) error {
	if len(values) == 0 {
		return common.NewValidationError("parametric", common.ErrorInvalidValue, "no observations")
	}
	if len(values) != len(statuses) {
		return common.NewValidationError("parametric", common.ErrorLengthMismatch,
			"%d values, %d statuses", len(values), len(statuses))
	}
	for i, s := range statuses {
		if !s.Valid() {
			return common.NewValidationError("parametric", common.ErrorInvalidValue, "status %v at %d", s, i)
		}
	}
	if !utils.AllFinite(values) {
		return common.NewValidationError("parametric", common.ErrorInvalidValue, "values must be finite")
	}
	if !utils.AllPositive(values) {
		return common.NewValidationError("parametric", common.ErrorNonPositive,
			"weibull requires every value and bound to be > 0")
	}
	if model.CountStatus(statuses, model.Observed) == 0 {
		return common.NewValidationError("parametric", common.ErrorInsufficientData,
			"need at least 1 exact value to fit the weibull model, got 0 of %d", len(values))
	}
	return nil
}

func checkSide(statuses []model.Status, side model.Status) error {
	for i, s := range statuses {
		if s != model.Observed && s != side {
			return common.NewValidationError("parametric", common.ErrorInvalidValue,
				"status %v at %d, only observed and %v are allowed", s, i, side)
		}
	}
	return nil
}
