package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainTestSizes(t *testing.T) {
	s := TrainTest(10, 0.3, 42)

	assert.Len(t, s.TestIdx, 3)
	assert.Len(t, s.TrainIdx, 7)

	// 0.25 of 10 rounds up.
	s = TrainTest(10, 0.25, 42)
	assert.Len(t, s.TestIdx, 3)
}

func TestTrainTestPartition(t *testing.T) {
	s := TrainTest(20, 0.3, 7)

	seen := make(map[int]int)
	for _, idx := range s.TrainIdx {
		seen[idx]++
	}
	for _, idx := range s.TestIdx {
		seen[idx]++
	}

	require.Len(t, seen, 20)
	for idx, count := range seen {
		assert.Equal(t, 1, count, "index %d appears %d times", idx, count)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 20)
	}
}

func TestTrainTestDeterminism(t *testing.T) {
	a := TrainTest(50, 0.3, 42)
	b := TrainTest(50, 0.3, 42)
	assert.Equal(t, a, b)

	c := TrainTest(50, 0.3, 43)
	assert.NotEqual(t, a.TestIdx, c.TestIdx)
}

func TestKFold(t *testing.T) {
	folds := KFold(10, 3, 42)
	require.Len(t, folds, 3)

	// Remainder rows land in the leading folds.
	assert.Len(t, folds[0].TestIdx, 4)
	assert.Len(t, folds[1].TestIdx, 3)
	assert.Len(t, folds[2].TestIdx, 3)

	covered := make(map[int]int)
	for _, fold := range folds {
		assert.Len(t, fold.TrainIdx, 10-len(fold.TestIdx))
		for _, idx := range fold.TestIdx {
			covered[idx]++
		}
	}

	// Every row is a test row in exactly one fold.
	require.Len(t, covered, 10)
	for _, count := range covered {
		assert.Equal(t, 1, count)
	}
}

func TestKFoldDeterminism(t *testing.T) {
	assert.Equal(t, KFold(30, 3, 42), KFold(30, 3, 42))
}

func TestSubset(t *testing.T) {
	matrix := [][]float64{{0}, {1}, {2}, {3}}
	labels := []int{10, 11, 12, 13}

	assert.Equal(t, [][]float64{{3}, {1}}, Subset(matrix, []int{3, 1}))
	assert.Equal(t, []int{13, 11}, SubsetInts(labels, []int{3, 1}))
	assert.Empty(t, Subset(matrix, nil))
}
