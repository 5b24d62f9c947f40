package dataprep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deyachatterjee/data-science-toolkit/pkg/data"
)

func wineTable() *data.Table {
	return &data.Table{
		Header: []string{"fixed_acidity", "ph", "quality", "type"},
		Rows: [][]string{
			{"7.4", "3.51", "5", "red"},
			{"7.8", "3.20", "6", "red"},
			{"6.3", "3.00", "7", "white"},
			{"7.2", "NA", "4", "white"},
			{"6.9", "3.10", "NA", "white"},
		},
	}
}

func TestBuild(t *testing.T) {
	f, err := Build(wineTable(), BuildOptions{
		QualityColumn: "quality",
		SourceColumn:  "type",
		QualityCutoff: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"fixed_acidity", "ph", "type"}, f.Names)
	require.Len(t, f.X, 4) // row with missing quality dropped
	assert.Equal(t, 1, f.Dropped)
	assert.Equal(t, []int{5, 6, 7, 4}, f.Quality)
	assert.Equal(t, []int{1, 0, 0, 1}, f.Label)
	assert.Equal(t, []string{"red", "white"}, f.Sources)

	// source category encoded as the last feature column
	assert.Equal(t, 0.0, f.X[0][2])
	assert.Equal(t, 1.0, f.X[2][2])

	// missing ph median-imputed from {3.51, 3.20, 3.00}
	assert.Equal(t, 1, f.Imputed)
	assert.InDelta(t, 3.20, f.X[3][1], 1e-12)

	low, ok := f.ClassCounts()
	assert.Equal(t, 2, low)
	assert.Equal(t, 2, ok)
}

func TestBuildMissingColumns(t *testing.T) {
	_, err := Build(wineTable(), BuildOptions{QualityColumn: "nope", SourceColumn: "type"})
	assert.Error(t, err)

	_, err = Build(wineTable(), BuildOptions{QualityColumn: "quality", SourceColumn: "nope"})
	assert.Error(t, err)
}

func TestBuildDropsUnobservedColumn(t *testing.T) {
	// "sulphates" never parses, so the whole column is unobserved after
	// coercion and must not survive into the feature matrix.
	table := &data.Table{
		Header: []string{"ph", "sulphates", "quality", "type"},
		Rows: [][]string{
			{"3.5", "n/a", "5", "red"},
			{"3.2", "n/a", "6", "red"},
			{"3.0", "n/a", "7", "white"},
		},
	}
	f, err := Build(table, BuildOptions{QualityColumn: "quality", SourceColumn: "type", QualityCutoff: 5})
	require.NoError(t, err)

	assert.Equal(t, []string{"ph", "type"}, f.Names)
	for _, row := range f.X {
		require.Len(t, row, 2)
	}
	assert.Equal(t, 0, f.Imputed)
}

func TestBuildNoUsableRows(t *testing.T) {
	table := &data.Table{
		Header: []string{"ph", "quality", "type"},
		Rows:   [][]string{{"3.5", "NA", "red"}},
	}
	_, err := Build(table, BuildOptions{QualityColumn: "quality", SourceColumn: "type", QualityCutoff: 5})
	assert.Error(t, err)
}

func TestEncodeLabels(t *testing.T) {
	codes, classes := EncodeLabels([]string{"red", "white", "red", "white", "white"})
	assert.Equal(t, []float64{0, 1, 0, 1, 1}, codes)
	assert.Equal(t, []string{"red", "white"}, classes)
}

func TestSummarize(t *testing.T) {
	X := [][]float64{{1, 10}, {2, 20}, {3, 30}, {4, 40}}
	s := Summarize([]string{"a", "b"}, X)
	require.Len(t, s, 2)
	assert.Equal(t, "a", s[0].Name)
	assert.InDelta(t, 2.5, s[0].Mean, 1e-12)
	assert.InDelta(t, 1.0, s[0].Min, 1e-12)
	assert.InDelta(t, 4.0, s[0].Max, 1e-12)
	assert.InDelta(t, 25.0, s[1].Median, 1e-12)
}

func TestQualityCorrelations(t *testing.T) {
	X := [][]float64{{1, 4}, {2, 3}, {3, 2}, {4, 1}}
	quality := []int{3, 4, 5, 6}
	cors := QualityCorrelations([]string{"up", "down"}, X, quality)
	require.Len(t, cors, 2)
	assert.InDelta(t, 1.0, cors[0].R, 1e-12)
	assert.InDelta(t, -1.0, cors[1].R, 1e-12)
}
