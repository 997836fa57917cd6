package substitution

import (
	"github.com/uyouii/ndimpute/common"
	"github.com/uyouii/ndimpute/model"
	"github.com/uyouii/ndimpute/utils"
)

// Rule is a strategy plus the multiplier used by model.Multiple.
type Rule struct {
	Strategy   model.Strategy `json:"strategy" yaml:"strategy"`
	Multiplier float64        `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
}

func DefaultLeftRule() Rule {
	return Rule{Strategy: model.Half}
}

func DefaultRightRule() Rule {
	return Rule{Strategy: model.Value}
}

func (r Rule) validate(side model.Status) error {
	switch r.Strategy {
	case model.Half, model.Zero:
		if side == model.RightCensored {
			return common.NewValidationError("substitution", common.ErrorUnknownOption,
				"strategy %v is not defined for right censoring", r.Strategy)
		}
	case model.Value:
	case model.Multiple:
		if !(r.Multiplier > 0) {
			return common.NewValidationError("substitution", common.ErrorInvalidValue,
				"strategy multiple needs a positive multiplier, got %v", r.Multiplier)
		}
	default:
		return common.NewValidationError("substitution", common.ErrorUnknownOption, "strategy %v", r.Strategy)
	}
	return nil
}

func (r Rule) apply(limit float64) float64 {
	switch r.Strategy {
	case model.Half:
		return limit / 2
	case model.Zero:
		return 0
	case model.Multiple:
		return limit * r.Multiplier
	}
	return limit
}

// Impute replaces left censored values with the left rule and right censored values
// with the right rule, observed values are kept.
func Impute(values []float64, statuses []model.Status, left, right Rule) ([]float64, error) {
	if len(values) != len(statuses) {
		return nil, common.NewValidationError("substitution", common.ErrorLengthMismatch,
			"%d values, %d statuses", len(values), len(statuses))
	}
	if model.CountStatus(statuses, model.LeftCensored) > 0 {
		if err := left.validate(model.LeftCensored); err != nil {
			return nil, err
		}
	}
	if model.CountStatus(statuses, model.RightCensored) > 0 {
		if err := right.validate(model.RightCensored); err != nil {
			return nil, err
		}
	}

	res := utils.CopyFloats(values)
	for i, s := range statuses {
		switch s {
		case model.LeftCensored:
			res[i] = left.apply(values[i])
		case model.RightCensored:
			res[i] = right.apply(values[i])
		case model.Observed:
		default:
			return nil, common.NewValidationError("substitution", common.ErrorInvalidValue, "status %v at %d", s, i)
		}
	}
	return res, nil
}
