package model

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/deyachatterjee/data-science-toolkit/pkg/stats"
)

// CTree is a conditional inference tree for a binary outcome. Instead of
// impurity gain it selects the split variable by association tests: for
// each feature the standardized linear statistic between the feature and
// the outcome is computed under the permutation null, the two-sided
// normal p-value is Bonferroni-adjusted across features, and growth stops
// when no feature is significant at Alpha. The split point in the chosen
// feature maximizes the standardized two-sample statistic.
type CTree struct {
	Alpha     float64 // significance level for the variable-selection test
	MaxDepth  int     // 0 => no depth limit
	MinSplit  int     // minimum node size to attempt a split
	MinBucket int     // minimum samples in each child

	root    *ctNode
	classes []int // ascending; probas align with this order
}

type ctNode struct {
	leaf        bool
	feature     int
	threshold   float64
	pValue      float64 // adjusted p-value of the selected feature
	left, right *ctNode
	n           int
	probas      []float64
}

// CTreeOption configures a CTree.
type CTreeOption func(*CTree)

func WithAlpha(a float64) CTreeOption  { return func(t *CTree) { t.Alpha = a } }
func WithCTreeDepth(d int) CTreeOption { return func(t *CTree) { t.MaxDepth = d } }
func WithMinSplit(n int) CTreeOption   { return func(t *CTree) { t.MinSplit = n } }
func WithMinBucket(n int) CTreeOption  { return func(t *CTree) { t.MinBucket = n } }

// NewCTree returns a conditional inference tree with conventional defaults
// (alpha 0.05, minsplit 20, minbucket 7).
func NewCTree(opts ...CTreeOption) *CTree {
	t := &CTree{
		Alpha:     0.05,
		MinSplit:  20,
		MinBucket: 7,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit trains the tree on X and a binary label vector y.
func (t *CTree) Fit(X [][]float64, y []int) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	classes := sortedClasses(y)
	if len(classes) > 2 {
		return fmt.Errorf("ctree: %d classes, binary outcome required", len(classes))
	}
	if len(classes) == 1 {
		// Degenerate but legal: a single-leaf tree.
		classes = append(classes, classes[0]+1)
	}
	t.classes = classes

	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.root = t.build(X, y, idx, 0)
	if t.root == nil {
		return errors.New("ctree: empty tree")
	}
	return nil
}

// Classes lists the class labels in probability-vector order.
func (t *CTree) Classes() []int { return t.classes }

// Predict returns the majority class of each row's leaf.
func (t *CTree) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, x := range X {
		out[i] = t.classes[argmaxFloat(t.predictRow(x))]
	}
	return out
}

// PredictProba returns the leaf class distribution for each row.
func (t *CTree) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, x := range X {
		out[i] = append([]float64(nil), t.predictRow(x)...)
	}
	return out
}

// NodeCount returns the number of nodes in the fitted tree.
func (t *CTree) NodeCount() int { return countNodes(t.root) }

// Depth returns the depth of the fitted tree (a lone leaf has depth 0).
func (t *CTree) Depth() int { return nodeDepth(t.root) }

func (t *CTree) predictRow(x []float64) []float64 {
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

func (t *CTree) build(X [][]float64, y []int, idx []int, depth int) *ctNode {
	counts := t.counts(y, idx)
	leaf := &ctNode{leaf: true, n: len(idx), probas: countsToProbas(counts)}

	if len(idx) < t.MinSplit || isPure(counts) {
		return leaf
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return leaf
	}

	feature, pAdj := t.selectFeature(X, y, idx)
	if feature < 0 || pAdj > t.Alpha {
		return leaf
	}

	threshold, ok := t.bestSplit(X, y, idx, feature)
	if !ok {
		return leaf
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	return &ctNode{
		n:         len(idx),
		feature:   feature,
		threshold: threshold,
		pValue:    pAdj,
		left:      t.build(X, y, leftIdx, depth+1),
		right:     t.build(X, y, rightIdx, depth+1),
	}
}

// selectFeature tests the independence of each feature and the outcome.
// The linear statistic T = sum of the feature over positive-labeled
// samples is standardized by its permutation-null mean and variance;
// the resulting two-sided p-value is Bonferroni-adjusted. Returns the
// feature with the smallest adjusted p-value, or -1 if none is testable.
func (t *CTree) selectFeature(X [][]float64, y []int, idx []int) (int, float64) {
	n := float64(len(idx))
	n1 := 0.0
	for _, i := range idx {
		if y[i] == t.positive() {
			n1++
		}
	}
	if n1 == 0 || n1 == n {
		return -1, 1
	}

	p := len(X[idx[0]])
	bestFeature, bestP := -1, math.Inf(1)
	for j := 0; j < p; j++ {
		var sum, sumSq, tStat float64
		for _, i := range idx {
			v := X[i][j]
			sum += v
			sumSq += v * v
			if y[i] == t.positive() {
				tStat += v
			}
		}
		mean := sum / n
		variance := sumSq/n - mean*mean
		if variance <= 0 {
			continue // constant feature carries no information
		}
		expected := n1 * mean
		// Variance of a sum over n1 draws without replacement.
		nullVar := n1 * (n - n1) / (n - 1) * variance
		z := (tStat - expected) / math.Sqrt(nullVar)
		pVal := stats.TwoSidedP(z)
		if pVal < bestP {
			bestP = pVal
			bestFeature = j
		}
	}
	if bestFeature < 0 {
		return -1, 1
	}
	pAdj := bestP * float64(p)
	if pAdj > 1 {
		pAdj = 1
	}
	return bestFeature, pAdj
}

// bestSplit chooses the threshold in feature f maximizing the absolute
// standardized two-sample statistic, honoring MinBucket on both sides.
func (t *CTree) bestSplit(X [][]float64, y []int, idx []int, f int) (float64, bool) {
	ordered := append([]int(nil), idx...)
	sort.Slice(ordered, func(a, b int) bool { return X[ordered[a]][f] < X[ordered[b]][f] })

	n := float64(len(ordered))
	n1 := 0.0
	for _, i := range ordered {
		if y[i] == t.positive() {
			n1++
		}
	}

	bestZ, bestThreshold, found := 0.0, 0.0, false
	leftPos := 0.0
	for s := 1; s < len(ordered); s++ {
		if y[ordered[s-1]] == t.positive() {
			leftPos++
		}
		prev, cur := X[ordered[s-1]][f], X[ordered[s]][f]
		if prev == cur {
			continue
		}
		nl := float64(s)
		if int(nl) < t.MinBucket || int(n-nl) < t.MinBucket {
			continue
		}
		// Hypergeometric moments of the positive count in the left child.
		expected := nl * n1 / n
		nullVar := nl * (n - nl) * n1 * (n - n1) / (n * n * (n - 1))
		if nullVar <= 0 {
			continue
		}
		z := math.Abs(leftPos-expected) / math.Sqrt(nullVar)
		if z > bestZ {
			bestZ = z
			bestThreshold = (prev + cur) / 2
			found = true
		}
	}
	return bestThreshold, found
}

func (t *CTree) positive() int { return t.classes[1] }

func (t *CTree) counts(y []int, idx []int) []int {
	counts := make([]int, len(t.classes))
	for _, i := range idx {
		if y[i] == t.positive() {
			counts[1]++
		} else {
			counts[0]++
		}
	}
	return counts
}

func countNodes(n *ctNode) int {
	if n == nil {
		return 0
	}
	return 1 + countNodes(n.left) + countNodes(n.right)
}

func nodeDepth(n *ctNode) int {
	if n == nil || n.leaf {
		return 0
	}
	l, r := nodeDepth(n.left), nodeDepth(n.right)
	if l > r {
		return l + 1
	}
	return r + 1
}
