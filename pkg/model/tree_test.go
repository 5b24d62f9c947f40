package model

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separableData draws two Gaussian blobs split cleanly on feature 0;
// feature 1 is pure noise.
func separableData(n int, rnd *rand.Rand) ([][]float64, []int) {
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		label := i % 2
		center := -3.0
		if label == 1 {
			center = 3.0
		}
		X[i] = []float64{center + rnd.NormFloat64()*0.5, rnd.NormFloat64()}
		y[i] = label
	}
	return X, y
}

func accuracy(yTrue, yPred []int) float64 {
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

func TestDecisionTreeSeparable(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	X, y := separableData(200, rnd)

	tree := NewDecisionTree(WithMaxDepth(4), WithRandomState(11))
	require.NoError(t, tree.Fit(X, y))

	preds := tree.Predict(X)
	assert.GreaterOrEqual(t, accuracy(y, preds), 0.99)
	assert.Equal(t, []int{0, 1}, tree.Classes())
}

func TestDecisionTreeProbasSumToOne(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	X, y := separableData(100, rnd)

	tree := NewDecisionTree(WithMaxDepth(3), WithRandomState(5))
	require.NoError(t, tree.Fit(X, y))

	for _, probas := range tree.PredictProba(X[:10]) {
		sum := 0.0
		for _, p := range probas {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestDecisionTreePureLeaf(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}}
	y := []int{7, 7, 7}
	tree := NewDecisionTree()
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, []int{7, 7}, tree.Predict([][]float64{{0}, {10}}))
}

func TestDecisionTreeMinSamplesLeaf(t *testing.T) {
	// With MinSamplesLeaf 3 no valid split exists for 4 samples split 1/3.
	X := [][]float64{{0}, {1}, {1}, {1}}
	y := []int{0, 1, 1, 1}
	tree := NewDecisionTree(WithMinSamplesLeaf(3), WithRandomState(1))
	require.NoError(t, tree.Fit(X, y))
	// majority leaf predicts 1 everywhere
	assert.Equal(t, []int{1, 1}, tree.Predict([][]float64{{0}, {1}}))
}

func TestDecisionTreeInputErrors(t *testing.T) {
	tree := NewDecisionTree()
	assert.Error(t, tree.Fit(nil, nil))
	assert.Error(t, tree.Fit([][]float64{{1}}, []int{0, 1}))
	assert.Error(t, tree.Fit([][]float64{{1, 2}, {1}}, []int{0, 1}))
}

func TestDecisionTreeAllNaNFeature(t *testing.T) {
	// A feature column with no observed values must never win a split:
	// a NaN threshold sends every row the same way and the tree would
	// recurse on the unchanged node.
	rnd := rand.New(rand.NewSource(41))
	X, y := separableData(40, rnd)
	for i := range X {
		X[i][1] = math.NaN()
	}

	tree := NewDecisionTree(WithRandomState(41))
	require.NoError(t, tree.Fit(X, y))
	assert.GreaterOrEqual(t, accuracy(y, tree.Predict(X)), 0.99)
}

func TestDecisionTreeUnfitPredict(t *testing.T) {
	tree := NewDecisionTree()
	X := [][]float64{{1}, {2}}
	assert.Equal(t, []int{0, 0}, tree.Predict(X))
	for _, probas := range tree.PredictProba(X) {
		assert.Equal(t, []float64{0.5, 0.5}, probas)
	}
}

func TestDecisionTreeEntropyCriterion(t *testing.T) {
	rnd := rand.New(rand.NewSource(13))
	X, y := separableData(100, rnd)
	tree := NewDecisionTree(WithCriterion("entropy"), WithRandomState(13))
	require.NoError(t, tree.Fit(X, y))
	assert.GreaterOrEqual(t, accuracy(y, tree.Predict(X)), 0.99)
}
