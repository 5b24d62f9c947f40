package stats

import "math"

// NormalSF returns the upper-tail probability P(Z > z) of the standard
// normal distribution.
func NormalSF(z float64) float64 {
	return 0.5 * math.Erfc(z/math.Sqrt2)
}

// TwoSidedP returns the two-sided normal p-value for a standardized
// statistic z.
func TwoSidedP(z float64) float64 {
	p := 2 * NormalSF(math.Abs(z))
	if p > 1 {
		return 1
	}
	return p
}
