package ros

import (
	"context"
	"fmt"

	"github.com/uyouii/ndimpute/common"
	"github.com/uyouii/ndimpute/model"
	"github.com/uyouii/ndimpute/utils"
)

// ImputeMixed is a two pass heuristic, not a joint estimator. Pass one imputes the left
// censored points while right censored points stand in as observed; pass two imputes the
// right censored points on top of the pass one output.
func ImputeMixed(ctx context.Context, values []float64, statuses []model.Status, opts Options) ([]float64, error) {
	if len(values) != len(statuses) {
		return nil, common.NewValidationError("ros mixed", common.ErrorLengthMismatch,
			"%d values, %d statuses", len(values), len(statuses))
	}
	for i, s := range statuses {
		if !s.Valid() {
			return nil, common.NewValidationError("ros mixed", common.ErrorInvalidValue, "status %v at %d", s, i)
		}
	}

	filled := utils.CopyFloats(values)
	if model.CountStatus(statuses, model.LeftCensored) > 0 {
		var err error
		filled, err = imputeLeft(ctx, values, model.Mask(statuses, model.LeftCensored), opts)
		if err != nil {
			return nil, fmt.Errorf("left pass: %w", err)
		}
	}

	if model.CountStatus(statuses, model.RightCensored) == 0 {
		return filled, nil
	}
	res, err := imputeRight(ctx, filled, model.Mask(statuses, model.RightCensored), opts)
	if err != nil {
		return nil, fmt.Errorf("right pass: %w", err)
	}
	return res, nil
}
