package ros

import (
	"context"
	"fmt"
	"math"

	"github.com/uyouii/ndimpute/common"
	"github.com/uyouii/ndimpute/model"
	"github.com/uyouii/ndimpute/special"
	"github.com/uyouii/ndimpute/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// ImputeLeft imputes left censored points (values hold the detection limits) by
// regression on order statistics. Only Observed and LeftCensored statuses are accepted.
func ImputeLeft(ctx context.Context, values []float64, statuses []model.Status, opts Options) ([]float64, error) {
	if err := checkStatuses("ros left", values, statuses, model.LeftCensored); err != nil {
		return nil, err
	}
	return imputeLeft(ctx, values, model.Mask(statuses, model.LeftCensored), opts)
}

func imputeLeft(ctx context.Context, values []float64, censored []bool, opts Options) ([]float64, error) {
	logger := utils.GetLogger(ctx)

	if err := validateLeft(values, censored, opts.Dist); err != nil {
		return nil, err
	}

	pp, err := plottingPositions(values, censored, opts.PlottingPosition)
	if err != nil {
		return nil, err
	}
	z := zScores(pp)

	xObs, yObs := []float64{}, []float64{}
	for i, v := range values {
		if censored[i] {
			continue
		}
		xObs = append(xObs, z[i])
		yObs = append(yObs, forward(v, opts.Dist))
	}

	if floats.Max(xObs) == floats.Min(xObs) {
		return nil, common.NewValidationError("ros", common.ErrorInsufficientData,
			"need at least %d distinct uncensored plotting positions, all %d uncensored values share one",
			MinUncensoredCount, len(xObs))
	}

	slope, intercept, err := special.LinearFit(xObs, yObs)
	if err != nil {
		return nil, fmt.Errorf("ros regression: %w", err)
	}
	logger.Debug("ros line fitted", zap.Float64("slope", slope), zap.Float64("intercept", intercept),
		zap.String("dist", opts.Dist.String()), zap.String("plottingPosition", opts.PlottingPosition.String()))

	res := utils.CopyFloats(values)
	for i, limit := range values {
		if !censored[i] {
			continue
		}

		var zi float64
		switch opts.PlottingPosition {
		case model.KaplanMeier:
			zi = special.LowerTruncatedMean(z[i])
		case model.SimpleRank:
			zi = z[i]
		default:
			return nil, errUnknownScheme(opts.PlottingPosition)
		}

		imputed := backward(intercept+slope*zi, opts.Dist)
		// a value below the detection limit cannot exceed it
		res[i] = math.Min(imputed, limit)
	}
	return res, nil
}

func validateLeft(values []float64, censored []bool, dist model.Distribution) error {
	if len(values) == 0 {
		return common.NewValidationError("ros", common.ErrorInvalidValue, "no observations")
	}
	if len(values) != len(censored) {
		return common.NewValidationError("ros", common.ErrorLengthMismatch,
			"%d values, %d censoring flags", len(values), len(censored))
	}
	if !utils.AllFinite(values) {
		return common.NewValidationError("ros", common.ErrorInvalidValue, "values must be finite")
	}

	uncensored := 0
	for _, c := range censored {
		if !c {
			uncensored++
		}
	}
	if uncensored < MinUncensoredCount {
		return common.NewValidationError("ros", common.ErrorInsufficientData,
			"need at least %d uncensored values to fit the regression, got %d of %d",
			MinUncensoredCount, uncensored, len(values))
	}

	switch dist {
	case model.Lognormal:
		if !utils.AllPositive(values) {
			return common.NewValidationError("ros", common.ErrorNonPositive,
				"lognormal requires every value and limit to be > 0")
		}
	case model.Normal:
	default:
		return common.NewValidationError("ros", common.ErrorUnknownOption, "distribution %v", dist)
	}
	return nil
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

// checkStatuses accepts Observed and the given censored side only.
func checkStatuses(op string, values []float64, statuses []model.Status, side model.Status) error {
	if len(values) != len(statuses) {
		return common.NewValidationError(op, common.ErrorLengthMismatch,
			"%d values, %d statuses", len(values), len(statuses))
	}
	for i, s := range statuses {
		if s != model.Observed && s != side {
			return common.NewValidationError(op, common.ErrorInvalidValue,
				"status %v at %d, only observed and %v are allowed", s, i, side)
		}
	}
	return nil
}

func errUnknownScheme(scheme model.PlottingPosition) error {
	return common.NewValidationError("ros", common.ErrorUnknownOption, "plotting position %v", scheme)
}
