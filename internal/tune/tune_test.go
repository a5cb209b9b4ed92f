package tune

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epiforge/outbreaks/internal/parallel"
)

// smallGrid keeps candidate fits cheap.
func smallGrid() ParamGrid {
	return ParamGrid{
		Trees:           []int{5, 10},
		MaxDepth:        []int{0, 3},
		MinSamplesSplit: []int{2, 5},
		MinSamplesLeaf:  []int{1, 2},
		Bootstrap:       []bool{true, false},
	}
}

func separable() ([][]float64, []int) {
	X := make([][]float64, 30)
	y := make([]int, 30)
	for i := range X {
		X[i] = []float64{float64(i)}
		if i >= 15 {
			X[i][0] += 100
			y[i] = 1
		}
	}
	return X, y
}

func TestRandomizedSearch(t *testing.T) {
	X, y := separable()

	result, err := RandomizedSearch(X, y, smallGrid(), 5, 3, 42, nil)
	require.NoError(t, err)

	require.NotNil(t, result.Best)
	require.Len(t, result.Candidates, 5)

	for _, c := range result.Candidates {
		assert.GreaterOrEqual(t, c.MeanAccuracy, 0.0)
		assert.LessOrEqual(t, c.MeanAccuracy, 1.0)
		assert.Contains(t, smallGrid().Trees, c.Config.Trees)
		assert.Contains(t, smallGrid().MaxDepth, c.Config.MaxDepth)
	}

	assert.InDelta(t, result.BestScore, bestOf(result.Candidates), 1e-12)

	// The refit estimator separates the clusters.
	pred := result.Best.PredictBatch(X)
	correct := 0
	for i := range pred {
		if pred[i] == y[i] {
			correct++
		}
	}
	assert.GreaterOrEqual(t, correct, 28)
}

func bestOf(candidates []Candidate) float64 {
	best := candidates[0].MeanAccuracy
	for _, c := range candidates[1:] {
		if c.MeanAccuracy > best {
			best = c.MeanAccuracy
		}
	}
	return best
}

func TestRandomizedSearchDeterminism(t *testing.T) {
	X, y := separable()

	pool := parallel.NewWorkerPool(4)
	defer pool.Close()

	a, err := RandomizedSearch(X, y, smallGrid(), 6, 3, 42, pool)
	require.NoError(t, err)
	b, err := RandomizedSearch(X, y, smallGrid(), 6, 3, 42, nil)
	require.NoError(t, err)

	// Draws happen before evaluation, so pool scheduling cannot change
	// the candidate list or the selection.
	assert.Equal(t, a.Candidates, b.Candidates)
	assert.Equal(t, a.BestConfig, b.BestConfig)
	assert.Equal(t, a.Best.PredictBatch(X), b.Best.PredictBatch(X))
}

func TestRandomizedSearchTiesKeepEarliestDraw(t *testing.T) {
	X, y := separable()

	// A one-combination grid forces identical scores on every draw.
	grid := ParamGrid{
		Trees:           []int{5},
		MaxDepth:        []int{3},
		MinSamplesSplit: []int{2},
		MinSamplesLeaf:  []int{1},
		Bootstrap:       []bool{false},
	}

	result, err := RandomizedSearch(X, y, grid, 4, 3, 42, nil)
	require.NoError(t, err)
	assert.Equal(t, result.Candidates[0].Config, result.BestConfig)
}

func TestRandomizedSearchValidation(t *testing.T) {
	_, err := RandomizedSearch(nil, nil, smallGrid(), 5, 3, 42, nil)
	assert.Error(t, err)

	X, y := separable()
	_, err = RandomizedSearch(X, y, ParamGrid{}, 5, 3, 42, nil)
	assert.Error(t, err)
}
