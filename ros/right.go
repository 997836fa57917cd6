package ros

import (
	"context"
	"math"

	"github.com/uyouii/ndimpute/common"
	"github.com/uyouii/ndimpute/model"
	"github.com/uyouii/ndimpute/utils"
)

// ImputeRight imputes right censored points by reflecting the data onto a left censoring
// problem: 1/y under lognormal, -y under normal.
func ImputeRight(ctx context.Context, values []float64, statuses []model.Status, opts Options) ([]float64, error) {
	if err := checkStatuses("ros right", values, statuses, model.RightCensored); err != nil {
		return nil, err
	}
	return imputeRight(ctx, values, model.Mask(statuses, model.RightCensored), opts)
}

func imputeRight(ctx context.Context, values []float64, censored []bool, opts Options) ([]float64, error) {
	if !utils.AllFinite(values) {
		return nil, common.NewValidationError("ros", common.ErrorInvalidValue, "values must be finite")
	}

	var reflect func([]float64) []float64
	switch opts.Dist {
	case model.Lognormal:
		if !utils.AllPositive(values) {
			return nil, common.NewValidationError("ros", common.ErrorNonPositive,
				"lognormal requires every value and limit to be > 0")
		}
		reflect = utils.Reciprocal
	case model.Normal:
		reflect = utils.Negate
	default:
		return nil, common.NewValidationError("ros", common.ErrorUnknownOption, "distribution %v", opts.Dist)
	}

	imputed, err := imputeLeft(ctx, reflect(values), censored, opts)
	if err != nil {
		return nil, err
	}

	res := reflect(imputed)
	for i, c := range censored {
		if !c {
			res[i] = values[i]
			continue
		}
		// the reflected clamp can land an ulp below the bound
		res[i] = math.Max(res[i], values[i])
	}
	return res, nil
}
