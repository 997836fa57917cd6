package special

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Probit is the inverse standard normal CDF.
func Probit(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

func NormPDF(z float64) float64 {
	return distuv.UnitNormal.Prob(z)
}

func NormCDF(z float64) float64 {
	return distuv.UnitNormal.CDF(z)
}

// LowerTruncatedMean is E[Z | Z < zc] for a standard normal Z.
func LowerTruncatedMean(zc float64) float64 {
	cdf := NormCDF(zc)
	if cdf < 1e-300 {
		// Mills ratio asymptote
		return zc + 1/zc
	}
	return -NormPDF(zc) / cdf
}

// TruncatedMean is E[Z | a < Z < b] for a standard normal Z together with the
// probability mass of (a, b). Either bound may be infinite.
func TruncatedMean(a, b float64) (float64, float64) {
	phiA, phiB := 0.0, 0.0
	cdfA, cdfB := 0.0, 1.0
	if !math.IsInf(a, -1) {
		phiA, cdfA = NormPDF(a), NormCDF(a)
	}
	if !math.IsInf(b, 1) {
		phiB, cdfB = NormPDF(b), NormCDF(b)
	}
	mass := cdfB - cdfA
	if mass <= 0 {
		return math.NaN(), 0
	}
	return (phiA - phiB) / mass, mass
}
