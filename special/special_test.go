package special

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/ndimpute/common"
	"github.com/uyouii/ndimpute/model"
	"gonum.org/v1/gonum/integrate/quad"
)

func TestNormal(t *testing.T) {
	assert.InDelta(t, 0.0, Probit(0.5), 1e-12)
	assert.InDelta(t, 1.959963984540054, Probit(0.975), 1e-9)
	assert.InDelta(t, 0.3989422804014327, NormPDF(0), 1e-12)
	assert.InDelta(t, 0.5, NormCDF(0), 1e-12)
	assert.InDelta(t, 0.975, NormCDF(Probit(0.975)), 1e-9)
}

func TestLowerTruncatedMean(t *testing.T) {
	// E[Z | Z < 0] = -sqrt(2/pi)
	assert.InDelta(t, -math.Sqrt(2/math.Pi), LowerTruncatedMean(0), 1e-12)
	for _, zc := range []float64{-2, -0.5, 0.3, 1.5} {
		assert.Less(t, LowerTruncatedMean(zc), zc)
	}
	assert.Less(t, LowerTruncatedMean(-40), -40.0)
}

func TestTruncatedMean(t *testing.T) {
	m, mass := TruncatedMean(math.Inf(-1), math.Inf(1))
	assert.InDelta(t, 0.0, m, 1e-12)
	assert.InDelta(t, 1.0, mass, 1e-12)

	m, _ = TruncatedMean(-1, 1)
	assert.InDelta(t, 0.0, m, 1e-12)

	m, _ = TruncatedMean(math.Inf(-1), 0)
	assert.InDelta(t, LowerTruncatedMean(0), m, 1e-12)

	_, mass = TruncatedMean(2, 1)
	assert.Equal(t, 0.0, mass)
}

func TestGammaInc(t *testing.T) {
	// a = 1 is the exponential CDF
	for _, x := range []float64{0.1, 1, 3.5} {
		assert.InDelta(t, 1-math.Exp(-x), GammaIncLower(1, x), 1e-12)
		assert.InDelta(t, math.Exp(-x), GammaIncUpper(1, x), 1e-12)
		assert.InDelta(t, 1.0, GammaIncLower(2.5, x)+GammaIncUpper(2.5, x), 1e-12)
	}
}

func TestLinearFit(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{3, 5, 7, 9}
	slope, intercept, err := LinearFit(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, slope, 1e-12)
	assert.InDelta(t, 1.0, intercept, 1e-12)

	_, _, err = LinearFit([]float64{1}, []float64{2})
	assert.True(t, errors.Is(err, common.ErrorInsufficientData))

	_, _, err = LinearFit([]float64{1, 1}, []float64{2, 3})
	assert.True(t, errors.Is(err, common.ErrorFitFailed))

	// zero weight removes the outlier
	slope, intercept, err = WeightedLinearFit([]float64{1, 2, 3, 4}, []float64{3, 5, 7, 100}, []float64{1, 1, 1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, slope, 1e-9)
	assert.InDelta(t, 1.0, intercept, 1e-9)
}

func TestKaplanMeierNoCensoring(t *testing.T) {
	n := 20
	times := make([]float64, n)
	events := make([]bool, n)
	for i := range times {
		times[i] = float64(i)
		events[i] = true
	}
	sc, err := KaplanMeier(times, events)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		assert.Equal(t, float64(i), sc.Times()[i])
		assert.Equal(t, float64(n-i), sc.NumRisk()[i])
		assert.InDelta(t, 1-float64(i+1)/float64(n), sc.SurvProb()[i], 1e-12)
	}
	assert.Equal(t, 1.0, sc.At(-1))
	assert.InDelta(t, 0.95, sc.At(0), 1e-12)
	assert.InDelta(t, 0.95, sc.At(0.5), 1e-12)
	assert.InDelta(t, 0.0, sc.At(100), 1e-12)
}

func TestKaplanMeierCensored(t *testing.T) {
	// times 1, 2+, 3, 4+, 5
	times := []float64{3, 1, 5, 2, 4}
	events := []bool{true, true, true, false, false}
	sc, err := KaplanMeier(times, events)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 3, 5}, sc.Times())
	assert.Equal(t, []float64{5, 3, 1}, sc.NumRisk())
	assert.InDelta(t, 0.8, sc.At(1), 1e-12)
	assert.InDelta(t, 0.8, sc.At(2), 1e-12)
	assert.InDelta(t, 0.8*2.0/3.0, sc.At(3), 1e-12)
	assert.InDelta(t, 0.0, sc.At(5), 1e-12)

	_, err = KaplanMeier(nil, nil)
	assert.Error(t, err)
	_, err = KaplanMeier([]float64{1}, []bool{true, false})
	assert.True(t, errors.Is(err, common.ErrorLengthMismatch))
}

func weibullSample(rnd *rand.Rand, shape, scale float64, n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = scale * math.Pow(-math.Log(1-rnd.Float64()), 1/shape)
	}
	return res
}

func TestFitWeibullExact(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	values := weibullSample(rnd, 2, 50, 2000)
	statuses := make([]model.Status, len(values))

	p, err := FitWeibull(values, statuses)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, p.Shape, 0.15)
	assert.InDelta(t, 50.0, p.Scale, 2.5)
}

func TestFitWeibullMixedCensoring(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	values := weibullSample(rnd, 1.5, 10, 2000)
	statuses := make([]model.Status, len(values))
	for i, v := range values {
		switch {
		case v < 3:
			values[i], statuses[i] = 3, model.LeftCensored
		case v > 18:
			values[i], statuses[i] = 18, model.RightCensored
		}
	}

	p, err := FitWeibull(values, statuses)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, p.Shape, 0.15)
	assert.InDelta(t, 10.0, p.Scale, 0.8)

	// the fitted point beats a nearby perturbation
	best := WeibullLogLikelihood(p, values, statuses)
	worse := WeibullLogLikelihood(model.WeibullParams{Shape: p.Shape * 1.05, Scale: p.Scale}, values, statuses)
	assert.Greater(t, best, worse)
}

func TestFitWeibullValidation(t *testing.T) {
	_, err := FitWeibull([]float64{1, 2}, []model.Status{model.RightCensored, model.RightCensored})
	assert.True(t, errors.Is(err, common.ErrorInsufficientData))

	_, err = FitWeibull([]float64{1, -2}, []model.Status{model.Observed, model.Observed})
	assert.True(t, errors.Is(err, common.ErrorNonPositive))

	_, err = FitWeibull([]float64{1}, []model.Status{model.Observed, model.Observed})
	assert.True(t, errors.Is(err, common.ErrorLengthMismatch))
}

func TestWeibullLogLikelihoodMatchesDensity(t *testing.T) {
	p := model.WeibullParams{Shape: 2, Scale: 5}
	x := 3.0

	// right censored contribution integrates the density above x, the tail past 60 is negligible
	tail := quad.Fixed(func(t float64) float64 {
		return math.Exp(WeibullLogLikelihood(p, []float64{t}, []model.Status{model.Observed}))
	}, x, 60, 100, nil, 0)
	assert.InDelta(t, math.Exp(WeibullLogLikelihood(p, []float64{x}, []model.Status{model.RightCensored})), tail, 1e-6)

	left := math.Exp(WeibullLogLikelihood(p, []float64{x}, []model.Status{model.LeftCensored}))
	assert.InDelta(t, 1-math.Exp(-math.Pow(x/5, 2)), left, 1e-12)
}
