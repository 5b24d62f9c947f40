// Package loader partitions a labeled dataset into training and evaluation
// subsets and rebalances training classes. Everything is index-based so the
// underlying records are shared, never copied.
package loader

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// StratifiedSplit partitions the indices 0..len(y)-1 into disjoint,
// exhaustive train and test sets, preserving the per-label proportions.
// Per class the test share is floor(ratio*n), with at least one test
// sample when the class has two or more members.
func StratifiedSplit(y []int, testRatio float64, rnd *rand.Rand) (train, test []int, err error) {
	if len(y) == 0 {
		return nil, nil, errors.New("loader: empty label vector")
	}
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, fmt.Errorf("loader: test ratio %v out of (0,1)", testRatio)
	}

	groups := map[int][]int{}
	for i, label := range y {
		groups[label] = append(groups[label], i)
	}

	// Deterministic label order, then a seeded shuffle within each group.
	labels := make([]int, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	for _, label := range labels {
		idx := groups[label]
		rnd.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		nTest := int(float64(len(idx)) * testRatio)
		if nTest == 0 && len(idx) >= 2 {
			nTest = 1
		}
		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}

	rnd.Shuffle(len(train), func(a, b int) { train[a], train[b] = train[b], train[a] })
	rnd.Shuffle(len(test), func(a, b int) { test[a], test[b] = test[b], test[a] })
	if len(train) == 0 {
		return nil, nil, errors.New("loader: split left no training samples")
	}
	return train, test, nil
}

// Upsample resamples idx so every class reaches the majority class count,
// drawing the extra samples with replacement. The original indices are all
// retained.
func Upsample(idx []int, y []int, rnd *rand.Rand) []int {
	groups, labels := groupByLabel(idx, y)
	target := 0
	for _, g := range groups {
		if len(g) > target {
			target = len(g)
		}
	}

	var out []int
	for _, label := range labels {
		g := groups[label]
		out = append(out, g...)
		for extra := target - len(g); extra > 0; extra-- {
			out = append(out, g[rnd.Intn(len(g))])
		}
	}
	rnd.Shuffle(len(out), func(a, b int) { out[a], out[b] = out[b], out[a] })
	return out
}

// Downsample resamples idx so every class is cut to the minority class
// count, dropping a random surplus without replacement.
func Downsample(idx []int, y []int, rnd *rand.Rand) []int {
	groups, labels := groupByLabel(idx, y)
	target := -1
	for _, g := range groups {
		if target < 0 || len(g) < target {
			target = len(g)
		}
	}

	var out []int
	for _, label := range labels {
		g := append([]int(nil), groups[label]...)
		rnd.Shuffle(len(g), func(a, b int) { g[a], g[b] = g[b], g[a] })
		out = append(out, g[:target]...)
	}
	rnd.Shuffle(len(out), func(a, b int) { out[a], out[b] = out[b], out[a] })
	return out
}

func groupByLabel(idx []int, y []int) (map[int][]int, []int) {
	groups := map[int][]int{}
	for _, i := range idx {
		groups[y[i]] = append(groups[y[i]], i)
	}
	labels := make([]int, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Ints(labels)
	return groups, labels
}
