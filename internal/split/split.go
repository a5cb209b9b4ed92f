// Package split partitions row indices for training and evaluation.
// All partitioning is driven by explicit seeds so repeated runs on the
// same input produce identical partitions.
package split

import (
	"math"
	"math/rand"
)

// Split holds a train/test partition of row indices.
type Split struct {
	TrainIdx []int
	TestIdx  []int
}

// TrainTest shuffles [0, n) with a seeded Fisher-Yates permutation and
// carves off ceil(n*testRatio) rows as the held-out partition.
func TrainTest(n int, testRatio float64, seed int64) Split {
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	testLen := int(math.Ceil(float64(n) * testRatio))
	if testLen > n {
		testLen = n
	}

	return Split{
		TestIdx:  perm[:testLen],
		TrainIdx: perm[testLen:],
	}
}

// KFold shuffles [0, n) once and slices it into k contiguous folds; fold
// i is the test partition of split i. Remainder rows spread over the
// leading folds.
func KFold(n, k int, seed int64) []Split {
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	splits := make([]Split, 0, k)
	foldSize := n / k
	remainder := n % k

	start := 0
	for i := range k {
		size := foldSize
		if i < remainder {
			size++
		}
		test := perm[start : start+size]
		train := make([]int, 0, n-size)
		train = append(train, perm[:start]...)
		train = append(train, perm[start+size:]...)
		splits = append(splits, Split{TrainIdx: train, TestIdx: test})
		start += size
	}
	return splits
}

// Subset gathers the rows of a matrix at the given indices.
func Subset(matrix [][]float64, indices []int) [][]float64 {
	out := make([][]float64, len(indices))
	for i, idx := range indices {
		out[i] = matrix[idx]
	}
	return out
}

// SubsetInts gathers the labels at the given indices.
func SubsetInts(labels []int, indices []int) []int {
	out := make([]int, len(indices))
	for i, idx := range indices {
		out[i] = labels[idx]
	}
	return out
}
