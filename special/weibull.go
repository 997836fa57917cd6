package special

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/uyouii/ndimpute/common"
	"github.com/uyouii/ndimpute/model"
	"gonum.org/v1/gonum/optimize"
)

const (
	// Euler-Mascheroni constant, E[log T] = log(scale) - gamma/shape
	eulerGamma = 0.5772156649015329

	weibullMaxIterations = 5000
	weibullRestarts      = 2
)

// WeibullLogLikelihood of the sample with exact, left and right censored contributions.
func WeibullLogLikelihood(p model.WeibullParams, values []float64, statuses []model.Status) float64 {
	k, lambda := p.Shape, p.Scale
	logK, logLambda := math.Log(k), math.Log(lambda)

	ll := 0.0
	for i, x := range values {
		logX := math.Log(x)
		z := math.Exp(k * (logX - logLambda))
		switch statuses[i] {
		case model.Observed:
			ll += logK - logLambda + (k-1)*(logX-logLambda) - z
		case model.RightCensored:
			ll += -z
		case model.LeftCensored:
			ll += math.Log(-math.Expm1(-z))
		}
	}
	return ll
}

// FitWeibull fits a two-parameter Weibull by maximum likelihood over a sample that can mix
// exact, left censored and right censored observations.
func FitWeibull(values []float64, statuses []model.Status) (model.WeibullParams, error) {
	if len(values) != len(statuses) {
		return model.WeibullParams{}, fmt.Errorf("weibull fit: %w", common.ErrorLengthMismatch)
	}
	if model.CountStatus(statuses, model.Observed) == 0 {
		return model.WeibullParams{}, fmt.Errorf("weibull fit needs at least one exact value: %w",
			common.ErrorInsufficientData)
	}
	for i, v := range values {
		if !(v > 0) || math.IsInf(v, 0) {
			return model.WeibullParams{}, fmt.Errorf("weibull fit: value %v at %d: %w", v, i, common.ErrorNonPositive)
		}
	}

	start, err := weibullStart(values)
	if err != nil {
		return model.WeibullParams{}, fmt.Errorf("weibull start: %w", err)
	}

	// optimise over log parameters so both stay positive
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			p := model.WeibullParams{Shape: math.Exp(x[0]), Scale: math.Exp(x[1])}
			ll := WeibullLogLikelihood(p, values, statuses)
			if math.IsNaN(ll) || math.IsInf(ll, 0) {
				return math.Inf(1)
			}
			return -ll
		},
	}

	x := []float64{math.Log(start.Shape), math.Log(start.Scale)}
	for i := 0; i < weibullRestarts; i++ {
		settings := &optimize.Settings{
			MajorIterations: weibullMaxIterations,
			Converger: &optimize.FunctionConverge{
				Absolute:   1e-12,
				Relative:   1e-12,
				Iterations: 200,
			},
		}
		result, err := optimize.Minimize(problem, x, settings, &optimize.NelderMead{})
		if result == nil || math.IsInf(result.F, 0) || math.IsNaN(result.F) {
			return model.WeibullParams{}, fmt.Errorf("weibull optimisation: %v: %w", err, common.ErrorFitFailed)
		}
		x = result.X
	}

	params := model.WeibullParams{Shape: math.Exp(x[0]), Scale: math.Exp(x[1])}
	if !params.Valid() {
		return model.WeibullParams{}, fmt.Errorf("weibull fit produced %+v: %w", params, common.ErrorFitFailed)
	}
	return params, nil
}

// weibullStart uses the log-moment relations sd(log T) = pi/(shape*sqrt(6)) and
// E[log T] = log(scale) - gamma/shape.
func weibullStart(values []float64) (model.WeibullParams, error) {
	logs := make([]float64, len(values))
	for i, v := range values {
		logs[i] = math.Log(v)
	}
	meanLog, err := stats.Mean(logs)
	if err != nil {
		return model.WeibullParams{}, err
	}
	sdLog, err := stats.StandardDeviation(logs)
	if err != nil {
		return model.WeibullParams{}, err
	}

	shape := 1.0
	if sdLog > 0 {
		shape = math.Pi / (sdLog * math.Sqrt(6))
	}
	return model.WeibullParams{
		Shape: shape,
		Scale: math.Exp(meanLog + eulerGamma/shape),
	}, nil
}
