package dataprep

import (
	"fmt"
	"math"
	"strconv"

	"github.com/deyachatterjee/data-science-toolkit/pkg/data"
	"github.com/deyachatterjee/data-science-toolkit/pkg/logging"
	"github.com/deyachatterjee/data-science-toolkit/pkg/stats"
)

// Frame is the cleaned, model-ready dataset: a homogeneous numeric feature
// matrix, the categorical quality score and the derived binary outcome.
// Source records are never rewritten; derived fields are appended columns.
type Frame struct {
	// Names holds the feature column names, including the encoded source
	// category as the last feature.
	Names []string

	// X is the row-major feature matrix.
	X [][]float64

	// Quality is the original quality score, coerced to an integer category.
	Quality []int

	// Label is the derived binary outcome: 1 = low quality.
	Label []int

	// Sources lists the source categories in encoding order.
	Sources []string

	// Dropped counts rows removed for a missing or unparseable quality score.
	Dropped int

	// Imputed counts feature values replaced by their column median.
	Imputed int
}

// BuildOptions selects the target and tag columns and the outcome threshold.
type BuildOptions struct {
	// QualityColumn is the cleaned name of the quality score column.
	QualityColumn string

	// SourceColumn is the cleaned name of the source category column.
	SourceColumn string

	// QualityCutoff derives the outcome: quality <= cutoff means low quality.
	QualityCutoff int
}

// Build coerces a cleaned table into a Frame. Every column other than the
// quality and source columns is treated as a continuous attribute; missing
// or unparseable attribute values become NaN and are median-imputed. Rows
// without a usable quality score are dropped.
func Build(t *data.Table, opts BuildOptions) (*Frame, error) {
	qIdx := t.ColumnIndex(opts.QualityColumn)
	if qIdx < 0 {
		return nil, fmt.Errorf("dataprep: no quality column %q", opts.QualityColumn)
	}
	sIdx := t.ColumnIndex(opts.SourceColumn)
	if sIdx < 0 {
		return nil, fmt.Errorf("dataprep: no source column %q", opts.SourceColumn)
	}

	var featIdx []int
	f := &Frame{}
	for j, name := range t.Header {
		if j == qIdx || j == sIdx {
			continue
		}
		featIdx = append(featIdx, j)
		f.Names = append(f.Names, name)
	}

	var sources []string
	for _, row := range t.Rows {
		quality, ok := parseQuality(row[qIdx])
		if !ok {
			f.Dropped++
			continue
		}
		feats := make([]float64, len(featIdx))
		for k, j := range featIdx {
			feats[k] = parseAttr(row[j])
		}
		f.X = append(f.X, feats)
		f.Quality = append(f.Quality, quality)
		sources = append(sources, row[sIdx])
	}
	if len(f.X) == 0 {
		return nil, fmt.Errorf("dataprep: no usable rows (dropped %d)", f.Dropped)
	}

	// Median-impute stray missing attribute values, column by column. A
	// column with no observed values at all has no median and is dropped.
	keep := make([]int, 0, len(featIdx))
	for k := range featIdx {
		col := make([]float64, len(f.X))
		for i := range f.X {
			col[i] = f.X[i][k]
		}
		if math.IsNaN(stats.Median(col)) {
			logging.Warn().Str("column", f.Names[k]).Msg("dropping column with no observed values")
			continue
		}
		if n := ImputeMedian(col); n > 0 {
			f.Imputed += n
			for i := range f.X {
				f.X[i][k] = col[i]
			}
			logging.Debug().Str("column", f.Names[k]).Int("imputed", n).Msg("median-imputed missing values")
		}
		keep = append(keep, k)
	}
	if len(keep) < len(featIdx) {
		names := make([]string, len(keep))
		for c, k := range keep {
			names[c] = f.Names[k]
		}
		f.Names = names
		for i := range f.X {
			row := make([]float64, len(keep))
			for c, k := range keep {
				row[c] = f.X[i][k]
			}
			f.X[i] = row
		}
	}

	// Append the encoded source category as a feature column.
	codes, classes := EncodeLabels(sources)
	f.Sources = classes
	f.Names = append(f.Names, opts.SourceColumn)
	for i := range f.X {
		f.X[i] = append(f.X[i], codes[i])
	}

	// Derive the binary outcome from the quality threshold.
	f.Label = make([]int, len(f.Quality))
	for i, q := range f.Quality {
		if q <= opts.QualityCutoff {
			f.Label[i] = 1
		}
	}
	return f, nil
}

// ClassCounts tallies the derived outcome labels.
func (f *Frame) ClassCounts() (low, ok int) {
	for _, l := range f.Label {
		if l == 1 {
			low++
		} else {
			ok++
		}
	}
	return low, ok
}

func parseQuality(v string) (int, bool) {
	if IsMissing(v) {
		return 0, false
	}
	q, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(q) {
		return 0, false
	}
	return int(math.Round(q)), true
}

func parseAttr(v string) float64 {
	if IsMissing(v) {
		return math.NaN()
	}
	x, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return math.NaN()
	}
	return x
}
