// Package stats holds the descriptive statistics used by the cleaning,
// summary and tree-fitting stages. All functions skip NaN entries, since
// missing measurements are represented as math.NaN() after coercion.
package stats

import (
	"math"
	"sort"
)

// Mean computes the average of the non-NaN values in x.
func Mean(x []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Variance computes the population variance of the non-NaN values in a single pass.
func Variance(x []float64) float64 {
	sum, sumSq, n := 0.0, 0.0, 0
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		sumSq += v * v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	mean := sum / float64(n)
	return (sumSq / float64(n)) - (mean * mean)
}

// Std computes the standard deviation of the non-NaN values.
func Std(x []float64) float64 {
	return math.Sqrt(Variance(x))
}

// MinMax returns the minimum and maximum of the non-NaN values.
func MinMax(x []float64) (float64, float64) {
	min, max := math.NaN(), math.NaN()
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return min, max
}

// Median returns the median of the non-NaN values (allocates a copy).
func Median(x []float64) float64 {
	return Percentile(x, 50)
}

// Percentile returns the p-th percentile of the non-NaN values (0 <= p <= 100),
// interpolating linearly between order statistics.
func Percentile(x []float64, p float64) float64 {
	cp := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			cp = append(cp, v)
		}
	}
	n := len(cp)
	if n == 0 {
		return math.NaN()
	}
	sort.Float64s(cp)
	if p <= 0 {
		return cp[0]
	}
	if p >= 100 {
		return cp[n-1]
	}
	rank := p / 100 * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	if upper >= n {
		return cp[lower]
	}
	weight := rank - float64(lower)
	return cp[lower]*(1-weight) + cp[upper]*weight
}

// IQROutliers counts values outside [Q1 - k*IQR, Q3 + k*IQR].
// The conventional fence multiplier is k = 1.5.
func IQROutliers(x []float64, k float64) int {
	q1 := Percentile(x, 25)
	q3 := Percentile(x, 75)
	if math.IsNaN(q1) || math.IsNaN(q3) {
		return 0
	}
	iqr := q3 - q1
	lo, hi := q1-k*iqr, q3+k*iqr
	n := 0
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		if v < lo || v > hi {
			n++
		}
	}
	return n
}

// Correlation computes the Pearson correlation coefficient over the
// pairwise-complete entries of x and y in a single pass.
func Correlation(x, y []float64) float64 {
	if len(y) != len(x) {
		return 0
	}
	var sumX, sumY, sumXY, sumX2, sumY2, n float64
	for i := range x {
		xi, yi := x[i], y[i]
		if math.IsNaN(xi) || math.IsNaN(yi) {
			continue
		}
		sumX += xi
		sumY += yi
		sumXY += xi * yi
		sumX2 += xi * xi
		sumY2 += yi * yi
		n++
	}
	if n == 0 {
		return 0
	}
	numerator := n*sumXY - sumX*sumY
	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
