package special

import "gonum.org/v1/gonum/mathext"

// GammaIncLower is the regularized lower incomplete gamma function P(a, x).
func GammaIncLower(a, x float64) float64 {
	return mathext.GammaIncReg(a, x)
}

// GammaIncUpper is the regularized upper incomplete gamma function Q(a, x) = 1 - P(a, x).
func GammaIncUpper(a, x float64) float64 {
	return mathext.GammaIncRegComp(a, x)
}
