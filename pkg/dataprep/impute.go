package dataprep

import (
	"math"

	"github.com/deyachatterjee/data-science-toolkit/pkg/stats"
)

// ImputeMedian replaces NaN entries of col with the column median, in place.
// It returns the number of values imputed. A column with no observed values
// is left untouched.
func ImputeMedian(col []float64) int {
	median := stats.Median(col)
	if math.IsNaN(median) {
		return 0
	}
	n := 0
	for i, v := range col {
		if math.IsNaN(v) {
			col[i] = median
			n++
		}
	}
	return n
}
