package turnbull

import (
	"context"
	"fmt"
	"math"

	"github.com/uyouii/ndimpute/common"
	"github.com/uyouii/ndimpute/model"
	"github.com/uyouii/ndimpute/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// Estimate is the Turnbull NPMLE: probability mass over disjoint equivalence intervals.
type Estimate struct {
	Intervals  []model.Interval `json:"intervals"`
	Mass       []float64        `json:"mass"`
	Iterations int              `json:"iterations"`
	Converged  bool             `json:"converged"`
}

// Fit computes the Turnbull estimator for interval censored data with the EM
// self-consistency algorithm. Right = +Inf marks a right censored observation,
// Left == Right an exact one.
func Fit(ctx context.Context, bounds []model.Bounds, opts Options) (*Estimate, error) {
	logger := utils.GetLogger(ctx)
	opts = opts.withDefaults()

	if err := validate(bounds); err != nil {
		return nil, err
	}

	intervals := equivalenceIntervals(bounds)
	if len(intervals) == 0 {
		return nil, common.NewValidationError("turnbull", common.ErrorNoValidIntervals,
			"%d observations produced no candidate interval", len(bounds))
	}

	alpha := containment(bounds, intervals)

	m := len(intervals)
	mass := make([]float64, m)
	for j := range mass {
		mass[j] = 1 / float64(m)
	}

	iter, converged := 0, false
	for iter < opts.MaxIter {
		next := emStep(alpha, mass)
		iter++
		delta := floats.Distance(next, mass, math.Inf(1))
		mass = next
		if delta < opts.Tolerance {
			converged = true
			break
		}
	}

	if !converged {
		logger.Warn("turnbull em reached iteration cap", zap.Int("maxIter", opts.MaxIter),
			zap.Float64("tolerance", opts.Tolerance))
	}
	logger.Debug("turnbull em done", zap.Int("intervals", m), zap.Int("iterations", iter),
		zap.Bool("converged", converged))

	return &Estimate{
		Intervals:  intervals,
		Mass:       mass,
		Iterations: iter,
		Converged:  converged,
	}, nil
}

// FitArrays is Fit over parallel left/right arrays.
func FitArrays(ctx context.Context, left, right []float64, opts Options) (*Estimate, error) {
	if len(left) != len(right) {
		return nil, common.NewValidationError("turnbull", common.ErrorLengthMismatch,
			"left has %d bounds, right has %d", len(left), len(right))
	}
	return Fit(ctx, model.ZipBounds(left, right), opts)
}

// emStep is one E-step + M-step: soft responsibilities per observation,
// then the mean responsibility per interval.
func emStep(alpha [][]float64, mass []float64) []float64 {
	next := make([]float64, len(mass))
	contrib := make([]float64, len(mass))
	for i := range alpha {
		floats.MulTo(contrib, alpha[i], mass)
		denom := floats.Sum(contrib)
		if denom == 0 {
			denom = zeroRowEpsilon
		}
		floats.AddScaled(next, 1/denom, contrib)
	}
	floats.Scale(1/float64(len(alpha)), next)
	return next
}

func validate(bounds []model.Bounds) error {
	if len(bounds) == 0 {
		return common.NewValidationError("turnbull", common.ErrorInvalidValue, "no observations")
	}
	for i, b := range bounds {
		if !b.Valid() || math.IsInf(b.Left, 1) || math.IsInf(b.Right, -1) {
			return common.NewValidationError("turnbull", common.ErrorMalformedBounds,
				"observation %d has bounds (%v, %v]", i, b.Left, b.Right)
		}
	}
	return nil
}

// Survival is P(T > t): the mass of every interval starting strictly after t.
func (e *Estimate) Survival(t float64) float64 {
	res := 0.0
	for j, interval := range e.Intervals {
		if interval.Start > t {
			res += e.Mass[j]
		}
	}
	return res
}

func (e *Estimate) SurvivalAt(times []float64) []float64 {
	res := make([]float64, len(times))
	for i, t := range times {
		res[i] = e.Survival(t)
	}
	return res
}

// CumulativeMass is the running sum of Mass in interval order.
func (e *Estimate) CumulativeMass() []float64 {
	res := make([]float64, len(e.Mass))
	floats.CumSum(res, e.Mass)
	return res
}

func (e *Estimate) DebugString() string {
	return fmt.Sprintf("intervals: %v, iterations: %v, converged: %v", len(e.Intervals), e.Iterations, e.Converged)
}
