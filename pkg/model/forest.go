package model

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Forest is a random forest of CART trees for classification. Each tree
// grows on a bootstrap index resample with per-split feature subsampling;
// ensemble probabilities are the mean of the tree leaf distributions.
type Forest struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // 0 => sqrt(p), rounded down
	Bootstrap       bool
	RandomState     int64

	trees   []*DecisionTree
	classes []int
}

// ForestOption configures a Forest.
type ForestOption func(*Forest)

func WithNEstimators(n int) ForestOption { return func(f *Forest) { f.NEstimators = n } }
func WithBootstrap(b bool) ForestOption  { return func(f *Forest) { f.Bootstrap = b } }
func WithForestDepth(d int) ForestOption { return func(f *Forest) { f.MaxDepth = d } }
func WithForestMaxFeatures(k int) ForestOption {
	return func(f *Forest) { f.MaxFeatures = k }
}
func WithForestSeed(seed int64) ForestOption {
	return func(f *Forest) { f.RandomState = seed }
}

// NewForest initializes the forest with sensible defaults.
func NewForest(opts ...ForestOption) *Forest {
	f := &Forest{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Bootstrap:       true,
		RandomState:     time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fit grows the ensemble. Trees are trained concurrently, each with its
// own seeded source so runs are reproducible for a fixed RandomState.
func (f *Forest) Fit(X [][]float64, y []int) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	if f.NEstimators <= 0 {
		return errors.New("forest: NEstimators must be positive")
	}
	f.classes = sortedClasses(y)

	n := len(X)
	maxFeatures := f.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(len(X[0]))))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	f.trees = make([]*DecisionTree, f.NEstimators)
	errCh := make(chan error, f.NEstimators)
	var wg sync.WaitGroup

	for i := 0; i < f.NEstimators; i++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()

			// Per-tree source: contention-free and reproducible.
			treeRand := rand.New(rand.NewSource(f.RandomState + int64(k)))

			sample := make([]int, n)
			for j := range sample {
				if f.Bootstrap {
					sample[j] = treeRand.Intn(n)
				} else {
					sample[j] = j
				}
			}

			tree := NewDecisionTree(
				WithMaxDepth(f.MaxDepth),
				WithMinSamplesSplit(f.MinSamplesSplit),
				WithMinSamplesLeaf(f.MinSamplesLeaf),
				WithMaxFeatures(maxFeatures),
				WithRandomState(f.RandomState+int64(k)),
			)
			if err := tree.fitSubset(X, y, sample, f.classes); err != nil {
				errCh <- err
				return
			}
			f.trees[k] = tree
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

// Classes lists the class labels in probability-vector order.
func (f *Forest) Classes() []int { return f.classes }

// PredictProba averages the per-tree class distributions. An unfit forest
// returns uniform probabilities.
func (f *Forest) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	if len(f.trees) == 0 {
		for i := range out {
			out[i] = []float64{0.5, 0.5}
		}
		return out
	}

	// Fan out per-tree predictions, then average.
	probaCh := make(chan [][]float64, len(f.trees))
	var wg sync.WaitGroup
	for _, tree := range f.trees {
		wg.Add(1)
		go func(t *DecisionTree) {
			defer wg.Done()
			probaCh <- t.PredictProba(X)
		}(tree)
	}
	wg.Wait()
	close(probaCh)

	for i := range out {
		out[i] = make([]float64, len(f.classes))
	}
	for probas := range probaCh {
		for i := range probas {
			for c := range probas[i] {
				out[i][c] += probas[i][c]
			}
		}
	}
	scale := 1.0 / float64(len(f.trees))
	for i := range out {
		for c := range out[i] {
			out[i][c] *= scale
		}
	}
	return out
}

// Predict returns the class with the highest averaged probability (a soft
// majority vote across the trees).
func (f *Forest) Predict(X [][]float64) []int {
	probas := f.PredictProba(X)
	out := make([]int, len(X))
	for i := range probas {
		out[i] = f.classes[argmaxFloat(probas[i])]
	}
	return out
}
