package forest

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/epiforge/outbreaks/internal/parallel"
)

// Config holds the ensemble hyperparameters. The zero values of MaxDepth
// and MaxFeatures mean "unbounded" and "sqrt of feature count".
type Config struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Bootstrap       bool
	MaxFeatures     int
	Seed            int64
}

// DefaultConfig mirrors the reference estimator: 100 unbounded trees,
// bootstrap sampling, seed 42.
func DefaultConfig() Config {
	return Config{
		Trees:           100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Bootstrap:       true,
		Seed:            42,
	}
}

// String renders the hyperparameters for reports.
func (c Config) String() string {
	depth := "none"
	if c.MaxDepth > 0 {
		depth = fmt.Sprintf("%d", c.MaxDepth)
	}
	return fmt.Sprintf("trees=%d max_depth=%s min_split=%d min_leaf=%d bootstrap=%t",
		c.Trees, depth, c.MinSamplesSplit, c.MinSamplesLeaf, c.Bootstrap)
}

// Classifier is a bagged ensemble of Gini decision trees.
type Classifier struct {
	Config      Config
	TreeList    []*Tree
	Importances []float64 // normalized impurity decrease per feature
	NumFeatures int
}

// New creates an unfitted classifier.
func New(cfg Config) *Classifier {
	return &Classifier{Config: cfg}
}

// Fit builds the ensemble. Trees fit in parallel on the pool; each tree
// derives its random state from Seed and its index, so results do not
// depend on scheduling. A nil pool fits sequentially.
func (c *Classifier) Fit(X [][]float64, y []int, pool *parallel.WorkerPool) error {
	if len(X) == 0 {
		return fmt.Errorf("forest: empty training data")
	}
	if len(X) != len(y) {
		return fmt.Errorf("forest: %d feature rows for %d labels", len(X), len(y))
	}

	c.NumFeatures = len(X[0])
	maxFeatures := c.Config.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(c.NumFeatures)))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	type fitted struct {
		tree        *Tree
		importances []float64
	}

	fitOne := func(i int, _ int) fitted {
		rng := rand.New(rand.NewSource(c.Config.Seed + int64(i)))

		indices := make([]int, len(X))
		if c.Config.Bootstrap {
			for j := range indices {
				indices[j] = rng.Intn(len(X))
			}
		} else {
			for j := range indices {
				indices[j] = j
			}
		}

		params := &treeParams{
			maxDepth:        c.Config.MaxDepth,
			minSamplesSplit: c.Config.MinSamplesSplit,
			minSamplesLeaf:  c.Config.MinSamplesLeaf,
			maxFeatures:     maxFeatures,
			numFeatures:     c.NumFeatures,
			rng:             rng,
			importances:     make([]float64, c.NumFeatures),
			totalSamples:    len(indices),
		}
		return fitted{tree: buildTree(X, y, indices, params), importances: params.importances}
	}

	order := make([]int, c.Config.Trees)
	var results []fitted
	if pool != nil {
		results = parallel.Map(pool, order, fitOne)
	} else {
		results = make([]fitted, len(order))
		for i := range order {
			results[i] = fitOne(i, 0)
		}
	}

	c.TreeList = make([]*Tree, len(results))
	totals := make([]float64, c.NumFeatures)
	for i, r := range results {
		c.TreeList[i] = r.tree
		for f, v := range r.importances {
			totals[f] += v
		}
	}

	c.Importances = normalize(totals)
	return nil
}

// normalize scales importances to sum to 1; an all-zero vector (pure
// root leaves everywhere) stays zero.
func normalize(values []float64) []float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	out := make([]float64, len(values))
	if sum == 0 {
		return out
	}
	for i, v := range values {
		out[i] = v / sum
	}
	return out
}

// PredictProb averages the per-tree leaf probabilities for one row.
func (c *Classifier) PredictProb(x []float64) float64 {
	var total float64
	for _, tree := range c.TreeList {
		total += tree.predict(x)
	}
	return total / float64(len(c.TreeList))
}

// Predict thresholds the averaged probability at 0.5.
func (c *Classifier) Predict(x []float64) int {
	if c.PredictProb(x) > 0.5 {
		return 1
	}
	return 0
}

// PredictBatch predicts every row.
func (c *Classifier) PredictBatch(X [][]float64) []int {
	out := make([]int, len(X))
	for i, row := range X {
		out[i] = c.Predict(row)
	}
	return out
}

// FeatureImportances returns the normalized importances.
func (c *Classifier) FeatureImportances() []float64 {
	return append([]float64(nil), c.Importances...)
}
