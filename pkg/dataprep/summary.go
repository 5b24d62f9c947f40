package dataprep

import (
	"github.com/deyachatterjee/data-science-toolkit/pkg/stats"
)

// ColumnSummary describes one feature column of the cleaned dataset.
type ColumnSummary struct {
	Name     string  `json:"name"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
	Outliers int     `json:"outliers"`
}

// Summarize computes per-feature descriptive statistics, including the
// count of IQR-fence outliers.
func Summarize(names []string, X [][]float64) []ColumnSummary {
	out := make([]ColumnSummary, len(names))
	for j, name := range names {
		col := make([]float64, len(X))
		for i := range X {
			col[i] = X[i][j]
		}
		min, max := stats.MinMax(col)
		out[j] = ColumnSummary{
			Name:     name,
			Mean:     stats.Mean(col),
			Std:      stats.Std(col),
			Min:      min,
			Q1:       stats.Percentile(col, 25),
			Median:   stats.Median(col),
			Q3:       stats.Percentile(col, 75),
			Max:      max,
			Outliers: stats.IQROutliers(col, 1.5),
		}
	}
	return out
}

// FeatureCorrelation is the Pearson correlation of a feature with the
// quality score.
type FeatureCorrelation struct {
	Name string  `json:"name"`
	R    float64 `json:"r"`
}

// QualityCorrelations correlates every feature with the quality score.
func QualityCorrelations(names []string, X [][]float64, quality []int) []FeatureCorrelation {
	q := make([]float64, len(quality))
	for i, v := range quality {
		q[i] = float64(v)
	}
	out := make([]FeatureCorrelation, len(names))
	for j, name := range names {
		col := make([]float64, len(X))
		for i := range X {
			col[i] = X[i][j]
		}
		out[j] = FeatureCorrelation{Name: name, R: stats.Correlation(col, q)}
	}
	return out
}
