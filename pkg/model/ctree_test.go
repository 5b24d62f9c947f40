package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCTreeSeparable(t *testing.T) {
	rnd := rand.New(rand.NewSource(21))
	X, y := separableData(400, rnd)

	tree := NewCTree()
	require.NoError(t, tree.Fit(X, y))

	assert.GreaterOrEqual(t, accuracy(y, tree.Predict(X)), 0.98)
	assert.Greater(t, tree.Depth(), 0)
	assert.Greater(t, tree.NodeCount(), 1)
}

func TestCTreeStopsOnNoise(t *testing.T) {
	// Pure noise: no feature should pass the significance test, so the
	// tree must stay a single leaf.
	rnd := rand.New(rand.NewSource(33))
	n := 200
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		X[i] = []float64{rnd.NormFloat64(), rnd.NormFloat64()}
		y[i] = i % 2
	}

	tree := NewCTree(WithAlpha(0.001))
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, 0, tree.Depth())
	assert.Equal(t, 1, tree.NodeCount())
}

func TestCTreeMinSplit(t *testing.T) {
	rnd := rand.New(rand.NewSource(9))
	X, y := separableData(10, rnd)

	tree := NewCTree(WithMinSplit(50))
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, 1, tree.NodeCount())
}

func TestCTreeDepthLimit(t *testing.T) {
	rnd := rand.New(rand.NewSource(17))
	X, y := separableData(400, rnd)

	tree := NewCTree(WithCTreeDepth(1), WithMinBucket(1), WithMinSplit(2))
	require.NoError(t, tree.Fit(X, y))
	assert.LessOrEqual(t, tree.Depth(), 1)
}

func TestCTreeProbas(t *testing.T) {
	rnd := rand.New(rand.NewSource(29))
	X, y := separableData(400, rnd)

	tree := NewCTree()
	require.NoError(t, tree.Fit(X, y))
	for _, probas := range tree.PredictProba(X[:20]) {
		require.Len(t, probas, 2)
		assert.InDelta(t, 1.0, probas[0]+probas[1], 1e-9)
	}
}

func TestCTreeRejectsMulticlass(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}}
	y := []int{0, 1, 2}
	tree := NewCTree()
	assert.Error(t, tree.Fit(X, y))
}

func TestCTreeSingleClass(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}}
	y := []int{0, 0, 0}
	tree := NewCTree()
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, []int{0, 0}, tree.Predict([][]float64{{1}, {9}}))
}
