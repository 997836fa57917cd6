package impute

import (
	"context"
	"fmt"

	"github.com/uyouii/ndimpute/common"
	"github.com/uyouii/ndimpute/interval"
	"github.com/uyouii/ndimpute/model"
	"github.com/uyouii/ndimpute/parametric"
	"github.com/uyouii/ndimpute/ros"
	"github.com/uyouii/ndimpute/substitution"
	"github.com/uyouii/ndimpute/utils"
	"go.uber.org/zap"
)

// Impute routes a request to the engine selected by its method and censoring type.
// The result is in input order; observed values are returned unchanged.
func Impute(ctx context.Context, req *Request) (res *model.Result, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Impute recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()))
			res, err = nil, fmt.Errorf("impute panic: %v", r)
		}
	}()

	if req == nil {
		return nil, common.NewValidationError("impute", common.ErrorInvalidValue, "nil request")
	}
	opts := req.Options

	if opts.Censoring == model.IntervalCensoring {
		res, err = imputeInterval(ctx, req)
	} else {
		res, err = imputeValues(ctx, req)
	}
	if err != nil {
		logger.Error("impute failed", zap.Error(err), zap.String("method", opts.Method.String()),
			zap.String("censoring", opts.Censoring.String()))
		return nil, err
	}

	logger.Info("impute done", zap.String("method", opts.Method.String()),
		zap.String("censoring", opts.Censoring.String()), zap.String("result", res.DebugString()))
	return res, nil
}

func imputeValues(ctx context.Context, req *Request) (*model.Result, error) {
	opts := req.Options
	if len(req.Values) == 0 {
		return nil, common.NewValidationError("impute", common.ErrorInvalidValue, "no values")
	}
	if len(req.Values) != len(req.Status) {
		return nil, common.NewValidationError("impute", common.ErrorLengthMismatch,
			"%d values, %d statuses", len(req.Values), len(req.Status))
	}
	if !utils.AllFinite(req.Values) {
		return nil, common.NewValidationError("impute", common.ErrorInvalidValue, "values must be finite")
	}
	if err := checkCensoring(req.Status, opts.Censoring); err != nil {
		return nil, err
	}

	var (
		values []float64
		err    error
	)
	switch opts.Method {
	case model.ROS:
		values, err = imputeROS(ctx, req)
	case model.Parametric:
		var est *parametric.Estimate
		est, err = parametric.Impute(ctx, req.Values, req.Status, opts.Fallback)
		if est != nil {
			values = est.Values
		}
	case model.Substitution:
		values, err = substitution.Impute(req.Values, req.Status, opts.LeftRule, opts.RightRule)
	default:
		return nil, common.NewValidationError("impute", common.ErrorUnknownOption, "method %v", opts.Method)
	}
	if err != nil {
		return nil, err
	}

	imputed := make([]bool, len(req.Status))
	for i, s := range req.Status {
		imputed[i] = s.IsCensored()
	}
	return &model.Result{
		Values:   values,
		Original: utils.CopyFloats(req.Values),
		Status:   append([]model.Status(nil), req.Status...),
		Imputed:  imputed,
	}, nil
}

func imputeROS(ctx context.Context, req *Request) ([]float64, error) {
	opts := req.Options
	switch opts.Censoring {
	case model.LeftCensoring:
		return ros.ImputeLeft(ctx, req.Values, req.Status, opts.ROS)
	case model.RightCensoring:
		return ros.ImputeRight(ctx, req.Values, req.Status, opts.ROS)
	case model.MixedCensoring:
		return ros.ImputeMixed(ctx, req.Values, req.Status, opts.ROS)
	}
	return nil, common.NewValidationError("impute", common.ErrorUnknownOption, "censoring %v", opts.Censoring)
}

func imputeInterval(ctx context.Context, req *Request) (*model.Result, error) {
	opts := req.Options
	switch opts.Method {
	case model.ROS:
	case model.Parametric, model.Substitution:
		return nil, common.NewValidationError("impute", common.ErrorUnknownOption,
			"method %v does not support interval censoring", opts.Method)
	default:
		return nil, common.NewValidationError("impute", common.ErrorUnknownOption, "method %v", opts.Method)
	}
	if len(req.Bounds) == 0 {
		return nil, common.NewValidationError("impute", common.ErrorMalformedBounds, "interval censoring needs bounds")
	}

	est, err := interval.Impute(ctx, req.Bounds, opts.ROS.Dist, opts.Turnbull)
	if err != nil {
		return nil, err
	}

	imputed := make([]bool, len(req.Bounds))
	for i := range imputed {
		imputed[i] = true
	}
	return &model.Result{
		Values:  est.Values,
		Imputed: imputed,
	}, nil
}

// checkCensoring rejects statuses that the censoring type cannot produce.
func checkCensoring(statuses []model.Status, censoring model.CensoringType) error {
	var allowed func(model.Status) bool
	switch censoring {
	case model.LeftCensoring:
		allowed = func(s model.Status) bool { return s == model.Observed || s == model.LeftCensored }
	case model.RightCensoring:
		allowed = func(s model.Status) bool { return s == model.Observed || s == model.RightCensored }
	case model.MixedCensoring:
		allowed = model.Status.Valid
	default:
		return common.NewValidationError("impute", common.ErrorUnknownOption, "censoring %v", censoring)
	}
	for i, s := range statuses {
		if !allowed(s) {
			return common.NewValidationError("impute", common.ErrorInvalidValue,
				"status %v at %d is not valid for %v censoring", s, i, censoring)
		}
	}
	return nil
}

// ImputeMask is Impute for callers holding a boolean censoring indicator, the censored
// side follows opts.Censoring which must be left or right.
func ImputeMask(ctx context.Context, values []float64, censored []bool, opts Options) (*model.Result, error) {
	var side model.Status
	switch opts.Censoring {
	case model.LeftCensoring:
		side = model.LeftCensored
	case model.RightCensoring:
		side = model.RightCensored
	default:
		return nil, common.NewValidationError("impute", common.ErrorUnknownOption,
			"a boolean indicator cannot express %v censoring", opts.Censoring)
	}
	return Impute(ctx, &Request{
		Values:  values,
		Status:  model.StatusesFromMask(censored, side),
		Options: opts,
	})
}
