package ros

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/ndimpute/common"
	"github.com/uyouii/ndimpute/model"
	"github.com/uyouii/ndimpute/special"
	"github.com/uyouii/ndimpute/utils"
)

func lognormalSample(rnd *rand.Rand, mu, sigma float64, n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = math.Exp(mu + sigma*rnd.NormFloat64())
	}
	return res
}

// leftCensor replaces every value below lod with lod
func leftCensor(values []float64, lod float64) ([]float64, []model.Status) {
	out := utils.CopyFloats(values)
	statuses := make([]model.Status, len(values))
	for i, v := range values {
		if v < lod {
			out[i], statuses[i] = lod, model.LeftCensored
		}
	}
	return out, statuses
}

func TestImputeLeftBasic(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	values := append(lognormalSample(rnd, 2, 0.5, 20), 1, 1, 1, 1, 1)
	statuses := make([]model.Status, len(values))
	for i := 20; i < len(values); i++ {
		statuses[i] = model.LeftCensored
	}
	rnd.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
		statuses[i], statuses[j] = statuses[j], statuses[i]
	})

	for _, scheme := range []model.PlottingPosition{model.KaplanMeier, model.SimpleRank} {
		res, err := ImputeLeft(context.Background(), values, statuses, Options{Dist: model.Lognormal, PlottingPosition: scheme})
		require.NoError(t, err)
		require.Len(t, res, len(values))
		for i, s := range statuses {
			if s == model.Observed {
				assert.Equal(t, values[i], res[i])
				continue
			}
			assert.Greater(t, res[i], 0.0)
			assert.LessOrEqual(t, res[i], values[i])
		}
	}
}

func TestImputeLeftKaplanMeierByHand(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	statuses := []model.Status{model.LeftCensored, model.Observed, model.Observed, model.Observed}

	res, err := ImputeLeft(context.Background(), values, statuses, Options{Dist: model.Normal, PlottingPosition: model.KaplanMeier})
	require.NoError(t, err)

	// survival of the negated data: S(-1) = S(-2) = 1/4, S(-3) = 1/2, S(-4) = 3/4, scaled by 4/5
	z := []float64{special.Probit(0.2), special.Probit(0.4), special.Probit(0.6)}
	slope, intercept, err := special.LinearFit(z, []float64{2, 3, 4})
	require.NoError(t, err)
	want := math.Min(intercept+slope*special.LowerTruncatedMean(special.Probit(0.2)), 1)

	assert.InDelta(t, want, res[0], 1e-12)
	assert.Equal(t, []float64{2, 3, 4}, res[1:])
}

func TestImputeLeftSimpleByHand(t *testing.T) {
	values := []float64{4, 0.5, 3, 2}
	statuses := []model.Status{model.Observed, model.LeftCensored, model.Observed, model.Observed}

	res, err := ImputeLeft(context.Background(), values, statuses, Options{Dist: model.Normal, PlottingPosition: model.SimpleRank})
	require.NoError(t, err)

	z := []float64{special.Probit(0.4), special.Probit(0.6), special.Probit(0.8)}
	slope, intercept, err := special.LinearFit(z, []float64{2, 3, 4})
	require.NoError(t, err)
	// no truncated mean correction in the rank scheme
	want := math.Min(intercept+slope*special.Probit(0.2), 0.5)
	assert.InDelta(t, want, res[1], 1e-12)
}

func TestSchemesDiffer(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	values, statuses := leftCensor(lognormalSample(rnd, 1, 1, 60), 1.5)

	km, err := ImputeLeft(context.Background(), values, statuses, Options{Dist: model.Lognormal, PlottingPosition: model.KaplanMeier})
	require.NoError(t, err)
	simple, err := ImputeLeft(context.Background(), values, statuses, Options{Dist: model.Lognormal, PlottingPosition: model.SimpleRank})
	require.NoError(t, err)
	assert.NotEqual(t, km, simple)
}

func TestMultipleDetectionLimits(t *testing.T) {
	rnd := rand.New(rand.NewSource(8))
	raw := lognormalSample(rnd, 1, 0.8, 80)
	values := utils.CopyFloats(raw)
	statuses := make([]model.Status, len(raw))
	for i, v := range raw {
		lod := []float64{1, 2, 3}[i%3]
		if v < lod {
			values[i], statuses[i] = lod, model.LeftCensored
		}
	}

	res, err := ImputeLeft(context.Background(), values, statuses, DefaultOptions())
	require.NoError(t, err)
	for i, s := range statuses {
		if s == model.LeftCensored {
			assert.LessOrEqual(t, res[i], values[i])
			assert.Greater(t, res[i], 0.0)
		} else {
			assert.Equal(t, values[i], res[i])
		}
	}
}

func TestInsufficientUncensored(t *testing.T) {
	values := make([]float64, 10)
	statuses := make([]model.Status, 10)
	for i := range values {
		values[i], statuses[i] = 1, model.LeftCensored
	}
	values[9], statuses[9] = 2, model.Observed

	_, err := ImputeLeft(context.Background(), values, statuses, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorInsufficientData))
	assert.True(t, common.IsValidation(err))
	assert.Contains(t, err.Error(), "insufficient uncensored")
	assert.Contains(t, err.Error(), "got 1 of 10")
}

func TestLognormalRejectsNonPositive(t *testing.T) {
	values := []float64{-1, 2, 3}
	statuses := []model.Status{model.LeftCensored, model.Observed, model.Observed}

	_, err := ImputeLeft(context.Background(), values, statuses, DefaultOptions())
	assert.True(t, errors.Is(err, common.ErrorNonPositive))

	_, err = ImputeRight(context.Background(), []float64{0, 2, 3},
		[]model.Status{model.RightCensored, model.Observed, model.Observed}, DefaultOptions())
	assert.True(t, errors.Is(err, common.ErrorNonPositive))

	// normal has no positivity constraint
	res, err := ImputeLeft(context.Background(), values, statuses, Options{Dist: model.Normal, PlottingPosition: model.KaplanMeier})
	require.NoError(t, err)
	assert.LessOrEqual(t, res[0], -1.0)
}

func TestImputeLeftRejectsOtherSide(t *testing.T) {
	_, err := ImputeLeft(context.Background(), []float64{1, 2, 3},
		[]model.Status{model.RightCensored, model.Observed, model.Observed}, DefaultOptions())
	assert.True(t, errors.Is(err, common.ErrorInvalidValue))

	_, err = ImputeLeft(context.Background(), []float64{1, 2}, []model.Status{model.Observed}, DefaultOptions())
	assert.True(t, errors.Is(err, common.ErrorLengthMismatch))
}

func TestReflectionIdentity(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	values := lognormalSample(rnd, 3, 0.6, 50)
	statuses := make([]model.Status, len(values))
	for i, v := range values {
		if v > 30 {
			values[i], statuses[i] = 30, model.RightCensored
		}
	}

	right, err := ImputeRight(context.Background(), values, statuses, DefaultOptions())
	require.NoError(t, err)

	mirrored := make([]model.Status, len(statuses))
	for i, s := range statuses {
		if s == model.RightCensored {
			mirrored[i] = model.LeftCensored
		}
	}
	left, err := ImputeLeft(context.Background(), utils.Reciprocal(values), mirrored, DefaultOptions())
	require.NoError(t, err)

	assert.InDeltaSlice(t, utils.Reciprocal(left), right, 1e-9)
	for i, s := range statuses {
		if s == model.RightCensored {
			assert.GreaterOrEqual(t, right[i], 30.0)
		} else {
			assert.Equal(t, values[i], right[i])
		}
	}
}

func TestImputeRightNormal(t *testing.T) {
	rnd := rand.New(rand.NewSource(6))
	values := make([]float64, 40)
	statuses := make([]model.Status, 40)
	for i := range values {
		values[i] = 10 + 3*rnd.NormFloat64()
		if values[i] > 12 {
			values[i], statuses[i] = 12, model.RightCensored
		}
	}

	res, err := ImputeRight(context.Background(), values, statuses, Options{Dist: model.Normal, PlottingPosition: model.KaplanMeier})
	require.NoError(t, err)

	negated := utils.Negate(values)
	mirrored := make([]model.Status, len(statuses))
	for i, s := range statuses {
		if s == model.RightCensored {
			mirrored[i] = model.LeftCensored
		}
	}
	left, err := ImputeLeft(context.Background(), negated, mirrored, Options{Dist: model.Normal, PlottingPosition: model.KaplanMeier})
	require.NoError(t, err)
	assert.InDeltaSlice(t, utils.Negate(left), res, 1e-12)
}

func TestImputeMixed(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	values := lognormalSample(rnd, 2, 0.5, 100)
	statuses := make([]model.Status, len(values))
	for i, v := range values {
		switch {
		case v < 4:
			values[i], statuses[i] = 4, model.LeftCensored
		case v > 15:
			values[i], statuses[i] = 15, model.RightCensored
		}
	}

	res, err := ImputeMixed(context.Background(), values, statuses, DefaultOptions())
	require.NoError(t, err)
	for i, s := range statuses {
		switch s {
		case model.LeftCensored:
			assert.LessOrEqual(t, res[i], 4.0)
		case model.RightCensored:
			assert.GreaterOrEqual(t, res[i], 15.0)
		default:
			assert.Equal(t, values[i], res[i])
		}
	}

	// pass one followed by pass two on its output
	pass1, err := imputeLeft(context.Background(), values, model.Mask(statuses, model.LeftCensored), DefaultOptions())
	require.NoError(t, err)
	pass2, err := imputeRight(context.Background(), pass1, model.Mask(statuses, model.RightCensored), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, pass2, res)
}

func TestImputeMixedWithoutCensoring(t *testing.T) {
	values := []float64{1, 2, 3}
	res, err := ImputeMixed(context.Background(), values, make([]model.Status, 3), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, values, res)
	res[0] = 7
	assert.Equal(t, 1.0, values[0])
}

func TestPlottingPositions(t *testing.T) {
	pp := rankPositions([]float64{3, 1, 2, 1})
	assert.InDeltaSlice(t, []float64{0.8, 0.2, 0.6, 0.4}, pp, 1e-12)

	// no censoring: S(-x) = P(X < x)
	pp, err := kaplanMeierPositions([]float64{1, 2, 3}, []bool{false, false, false})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5 / 4, 1.0 / 3 * 3 / 4, 2.0 / 3 * 3 / 4}, pp, 1e-12)
}

func TestRejectsNonFinite(t *testing.T) {
	cases := []struct {
		name     string
		values   []float64
		statuses []model.Status
		impute   func(context.Context, []float64, []model.Status, Options) ([]float64, error)
		dist     model.Distribution
	}{
		{"left lognormal +inf", []float64{1, 2, 3, math.Inf(1), 5},
			[]model.Status{model.LeftCensored, 0, 0, 0, 0}, ImputeLeft, model.Lognormal},
		{"left normal -inf", []float64{1, 2, math.Inf(-1), 4, 5},
			[]model.Status{model.LeftCensored, 0, 0, 0, 0}, ImputeLeft, model.Normal},
		{"right lognormal +inf", []float64{1, 2, 3, math.Inf(1), 5},
			[]model.Status{model.RightCensored, 0, 0, 0, 0}, ImputeRight, model.Lognormal},
		{"right normal +inf", []float64{1, 2, 3, math.Inf(1), 5},
			[]model.Status{model.RightCensored, 0, 0, 0, 0}, ImputeRight, model.Normal},
		{"mixed nan", []float64{1, 2, math.NaN(), 4, 5},
			[]model.Status{model.LeftCensored, 0, 0, 0, model.RightCensored}, ImputeMixed, model.Lognormal},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res, err := c.impute(context.Background(), c.values, c.statuses,
				Options{Dist: c.dist, PlottingPosition: model.KaplanMeier})
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, common.ErrorInvalidValue))
			assert.False(t, errors.Is(err, common.ErrorNonPositive))
		})
	}
}

func TestTiedUncensoredPositions(t *testing.T) {
	values := []float64{1, 2, 2, 1}
	statuses := []model.Status{model.LeftCensored, model.Observed, model.Observed, model.LeftCensored}

	_, err := ImputeLeft(context.Background(), values, statuses, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorInsufficientData))
	assert.Contains(t, err.Error(), "distinct")

	res, err := ImputeLeft(context.Background(), values, statuses,
		Options{Dist: model.Lognormal, PlottingPosition: model.SimpleRank})
	require.NoError(t, err)
	assert.LessOrEqual(t, res[0], 1.0)
	assert.LessOrEqual(t, res[3], 1.0)
}
