package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epiforge/outbreaks/internal/parallel"
)

// separable returns two well-separated clusters on the first feature;
// the second feature is constant noise.
func separable() ([][]float64, []int) {
	X := make([][]float64, 40)
	y := make([]int, 40)
	for i := range X {
		if i < 20 {
			X[i] = []float64{float64(i), 5}
		} else {
			X[i] = []float64{float64(i) + 100, 5}
			y[i] = 1
		}
	}
	return X, y
}

func TestFitAndPredict(t *testing.T) {
	X, y := separable()

	cfg := DefaultConfig()
	cfg.Trees = 25
	model := New(cfg)
	require.NoError(t, model.Fit(X, y, nil))

	pred := model.PredictBatch(X)
	correct := 0
	for i := range pred {
		if pred[i] == y[i] {
			correct++
		}
	}
	assert.GreaterOrEqual(t, correct, 38)

	prob := model.PredictProb([]float64{0, 5})
	assert.Less(t, prob, 0.5)
	prob = model.PredictProb([]float64{119, 5})
	assert.Greater(t, prob, 0.5)
}

func TestFitValidation(t *testing.T) {
	model := New(DefaultConfig())
	assert.Error(t, model.Fit(nil, nil, nil))
	assert.Error(t, model.Fit([][]float64{{1}}, []int{0, 1}, nil))
}

func TestFeatureImportances(t *testing.T) {
	X, y := separable()

	cfg := DefaultConfig()
	cfg.Trees = 25
	model := New(cfg)
	require.NoError(t, model.Fit(X, y, nil))

	importances := model.FeatureImportances()
	require.Len(t, importances, 2)

	var sum float64
	for _, v := range importances {
		assert.GreaterOrEqual(t, v, 0.0)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	// All the signal lives in the first feature.
	assert.Greater(t, importances[0], importances[1])
}

func TestFitDeterminism(t *testing.T) {
	X, y := separable()

	cfg := DefaultConfig()
	cfg.Trees = 10

	sequential := New(cfg)
	require.NoError(t, sequential.Fit(X, y, nil))

	pool := parallel.NewWorkerPool(4)
	defer pool.Close()
	pooled := New(cfg)
	require.NoError(t, pooled.Fit(X, y, pool))

	// Per-tree seeds derive from the tree index, so scheduling cannot
	// change the fitted ensemble.
	assert.Equal(t, sequential.PredictBatch(X), pooled.PredictBatch(X))
	assert.Equal(t, sequential.FeatureImportances(), pooled.FeatureImportances())
}

func TestMaxDepthLimitsTree(t *testing.T) {
	X, y := separable()

	cfg := DefaultConfig()
	cfg.Trees = 5
	cfg.MaxDepth = 1
	cfg.Bootstrap = false
	model := New(cfg)
	require.NoError(t, model.Fit(X, y, nil))

	for _, tree := range model.TreeList {
		assert.LessOrEqual(t, depthOf(tree.Root), 1)
	}
}

func depthOf(node *TreeNode) int {
	if node.Leaf {
		return 0
	}
	left := depthOf(node.Left)
	right := depthOf(node.Right)
	if left > right {
		return left + 1
	}
	return right + 1
}

func TestPureLabelsGiveLeafOnlyTrees(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}}
	y := []int{1, 1, 1}

	cfg := DefaultConfig()
	cfg.Trees = 3
	model := New(cfg)
	require.NoError(t, model.Fit(X, y, nil))

	assert.Equal(t, []int{1, 1, 1}, model.PredictBatch(X))
	assert.Equal(t, []float64{0}, model.FeatureImportances())
}

func TestConfigString(t *testing.T) {
	assert.Equal(t,
		"trees=100 max_depth=none min_split=2 min_leaf=1 bootstrap=true",
		DefaultConfig().String())

	cfg := Config{Trees: 50, MaxDepth: 10, MinSamplesSplit: 5, MinSamplesLeaf: 2}
	assert.Equal(t,
		"trees=50 max_depth=10 min_split=5 min_leaf=2 bootstrap=false",
		cfg.String())
}
