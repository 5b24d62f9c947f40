package model

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// DecisionTree is a CART-style classifier used as the forest's base
// learner. Splits minimize gini impurity (or entropy) over numeric
// thresholds.
type DecisionTree struct {
	MaxDepth        int    // 0 => no depth limit
	MinSamplesSplit int    // minimum samples to attempt a split
	MinSamplesLeaf  int    // minimum samples required in each child
	Criterion       string // "gini" (default) or "entropy"
	MaxFeatures     int    // 0 => consider all features at each split
	RandomState     int64  // seed for feature subsampling

	root    *treeNode
	classes []int
}

type treeNode struct {
	leaf        bool
	feature     int
	threshold   float64 // x <= threshold goes left
	left, right *treeNode
	n           int
	probas      []float64
}

// TreeOption configures a DecisionTree.
type TreeOption func(*DecisionTree)

func WithMaxDepth(d int) TreeOption        { return func(t *DecisionTree) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) TreeOption { return func(t *DecisionTree) { t.MinSamplesSplit = n } }
func WithMinSamplesLeaf(n int) TreeOption  { return func(t *DecisionTree) { t.MinSamplesLeaf = n } }
func WithCriterion(c string) TreeOption    { return func(t *DecisionTree) { t.Criterion = c } }
func WithMaxFeatures(k int) TreeOption     { return func(t *DecisionTree) { t.MaxFeatures = k } }
func WithRandomState(seed int64) TreeOption {
	return func(t *DecisionTree) { t.RandomState = seed }
}

// NewDecisionTree returns a classifier with sensible defaults.
func NewDecisionTree(opts ...TreeOption) *DecisionTree {
	t := &DecisionTree{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       "gini",
		RandomState:     time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit trains the tree on X (n x p) and y (n labels).
func (t *DecisionTree) Fit(X [][]float64, y []int) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.fitSubset(X, y, idx, sortedClasses(y))
}

// fitSubset trains on the given sample indices with a fixed class order.
// The forest uses it to grow trees on bootstrap resamples whose probability
// vectors stay aligned across the ensemble.
func (t *DecisionTree) fitSubset(X [][]float64, y []int, idx []int, classes []int) error {
	if len(idx) == 0 {
		return errors.New("tree: empty sample")
	}
	if len(classes) == 0 {
		return errors.New("tree: no classes")
	}
	t.classes = classes
	rnd := rand.New(rand.NewSource(t.RandomState))
	t.root = t.build(X, y, idx, 0, rnd)
	return nil
}

// Classes lists the class labels in probability-vector order.
func (t *DecisionTree) Classes() []int { return t.classes }

// Predict returns the majority class of the leaf each row lands in. An
// unfit tree predicts the zero label for every row.
func (t *DecisionTree) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	if len(t.classes) == 0 {
		return out
	}
	for i, x := range X {
		out[i] = t.classes[argmaxFloat(t.predictRow(x))]
	}
	return out
}

// PredictProba returns the leaf class distribution for each row.
func (t *DecisionTree) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, x := range X {
		probas := t.predictRow(x)
		out[i] = append([]float64(nil), probas...)
	}
	return out
}

func (t *DecisionTree) predictRow(x []float64) []float64 {
	if t.root == nil {
		return []float64{0.5, 0.5}
	}
	node := t.root
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.probas
}

type treeSplit struct {
	gain      float64
	feature   int
	threshold float64
}

func (t *DecisionTree) build(X [][]float64, y []int, idx []int, depth int, rnd *rand.Rand) *treeNode {
	counts := t.classCounts(y, idx)
	leaf := &treeNode{leaf: true, n: len(idx), probas: countsToProbas(counts)}

	if isPure(counts) || len(idx) < t.MinSamplesSplit {
		return leaf
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return leaf
	}

	p := len(X[idx[0]])
	features := make([]int, p)
	for j := range features {
		features[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		rnd.Shuffle(p, func(a, b int) { features[a], features[b] = features[b], features[a] })
		features = features[:t.MaxFeatures]
	}

	parent := t.impurity(counts)

	// Search each candidate feature in its own goroutine, keep the best.
	results := make(chan treeSplit, len(features))
	var wg sync.WaitGroup
	for _, f := range features {
		wg.Add(1)
		go func(f int) {
			defer wg.Done()
			results <- t.bestSplit(X, y, idx, f, parent)
		}(f)
	}
	wg.Wait()
	close(results)

	best := treeSplit{feature: -1}
	for r := range results {
		if r.feature >= 0 && r.gain > best.gain {
			best = r
		}
	}
	if best.feature < 0 || best.gain <= 0 {
		return leaf
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if X[i][best.feature] <= best.threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	// A split that fails to separate the node cannot make progress.
	if len(leftIdx) == 0 || len(rightIdx) == 0 {
		return leaf
	}
	return &treeNode{
		n:         len(idx),
		feature:   best.feature,
		threshold: best.threshold,
		left:      t.build(X, y, leftIdx, depth+1, rnd),
		right:     t.build(X, y, rightIdx, depth+1, rnd),
	}
}

// bestSplit scans the midpoints between consecutive distinct values of
// feature f for the threshold with the highest impurity gain.
func (t *DecisionTree) bestSplit(X [][]float64, y []int, idx []int, f int, parent float64) treeSplit {
	ordered := append([]int(nil), idx...)
	sort.Slice(ordered, func(a, b int) bool { return X[ordered[a]][f] < X[ordered[b]][f] })

	n := len(ordered)
	total := t.classCounts(y, ordered)
	left := make([]int, len(t.classes))
	best := treeSplit{feature: -1}

	for s := 1; s < n; s++ {
		left[t.classIndex(y[ordered[s-1]])]++
		prev, cur := X[ordered[s-1]][f], X[ordered[s]][f]
		// NaN never compares below a threshold, so a NaN midpoint would
		// send every row to one side.
		if prev == cur || math.IsNaN(prev) || math.IsNaN(cur) {
			continue
		}
		if s < t.MinSamplesLeaf || n-s < t.MinSamplesLeaf {
			continue
		}
		right := make([]int, len(total))
		for c := range total {
			right[c] = total[c] - left[c]
		}
		weighted := float64(s)/float64(n)*t.impurity(left) + float64(n-s)/float64(n)*t.impurity(right)
		if gain := parent - weighted; gain > best.gain {
			best = treeSplit{gain: gain, feature: f, threshold: (prev + cur) / 2}
		}
	}
	return best
}

func (t *DecisionTree) impurity(counts []int) float64 {
	if t.Criterion == "entropy" {
		return entropyFromCounts(counts)
	}
	return giniFromCounts(counts)
}

func (t *DecisionTree) classCounts(y []int, idx []int) []int {
	counts := make([]int, len(t.classes))
	for _, i := range idx {
		counts[t.classIndex(y[i])]++
	}
	return counts
}

func (t *DecisionTree) classIndex(label int) int {
	for i, c := range t.classes {
		if c == label {
			return i
		}
	}
	return 0
}

// ---- shared helpers ----

func checkXY(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("model: empty X")
	}
	if len(y) != len(X) {
		return errors.New("model: X and y length mismatch")
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return errors.New("model: inconsistent number of features in X rows")
		}
	}
	return nil
}

func sortedClasses(y []int) []int {
	seen := map[int]bool{}
	var classes []int
	for _, label := range y {
		if !seen[label] {
			seen[label] = true
			classes = append(classes, label)
		}
	}
	sort.Ints(classes)
	return classes
}

func giniFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		p := float64(c) / n
		res += p * (1 - p)
	}
	return res
}

func entropyFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		res -= p * math.Log2(p)
	}
	return res
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func countsToProbas(counts []int) []float64 {
	n := 0
	for _, c := range counts {
		n += c
	}
	p := make([]float64, len(counts))
	if n == 0 {
		return p
	}
	for i, c := range counts {
		p[i] = float64(c) / float64(n)
	}
	return p
}

func argmaxFloat(x []float64) int {
	best := 0
	for i := 1; i < len(x); i++ {
		if x[i] > x[best] {
			best = i
		}
	}
	return best
}
