// Package tune runs the randomized hyperparameter search over the tree
// ensemble. Candidate draws are seeded and happen up front, so the
// selected combination is identical across runs on the same data; only
// candidate evaluation fans out over the worker pool.
package tune

import (
	"fmt"
	"math/rand"

	"github.com/epiforge/outbreaks/internal/forest"
	"github.com/epiforge/outbreaks/internal/metrics"
	"github.com/epiforge/outbreaks/internal/parallel"
	"github.com/epiforge/outbreaks/internal/split"
)

// ParamGrid is the discrete search space. MaxDepth 0 means unbounded.
type ParamGrid struct {
	Trees           []int
	MaxDepth        []int
	MinSamplesSplit []int
	MinSamplesLeaf  []int
	Bootstrap       []bool
}

// DefaultGrid mirrors the reference search space.
func DefaultGrid() ParamGrid {
	return ParamGrid{
		Trees:           []int{50, 100, 200},
		MaxDepth:        []int{0, 10, 20, 30},
		MinSamplesSplit: []int{2, 5, 10},
		MinSamplesLeaf:  []int{1, 2, 4},
		Bootstrap:       []bool{true, false},
	}
}

// Candidate is one evaluated draw.
type Candidate struct {
	Config       forest.Config
	MeanAccuracy float64
}

// Result carries the refit best estimator and the full candidate log.
type Result struct {
	Best       *forest.Classifier
	BestConfig forest.Config
	BestScore  float64
	Candidates []Candidate
}

// RandomizedSearch draws iterations random combinations from the grid,
// scores each by mean accuracy over folds-fold cross-validation on the
// training partition, and refits the best combination on the full
// partition. Ties keep the earliest draw. Duplicate draws are evaluated
// independently, matching the reference's sampling.
func RandomizedSearch(X [][]float64, y []int, grid ParamGrid, iterations, folds int, seed int64, pool *parallel.WorkerPool) (*Result, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("tune: empty training data")
	}
	if len(grid.Trees) == 0 || len(grid.MaxDepth) == 0 || len(grid.MinSamplesSplit) == 0 ||
		len(grid.MinSamplesLeaf) == 0 || len(grid.Bootstrap) == 0 {
		return nil, fmt.Errorf("tune: parameter grid has an empty dimension")
	}

	// Draw every candidate before any evaluation; the draw order is part
	// of the reproducibility contract.
	rng := rand.New(rand.NewSource(seed))
	configs := make([]forest.Config, iterations)
	for i := range configs {
		configs[i] = forest.Config{
			Trees:           grid.Trees[rng.Intn(len(grid.Trees))],
			MaxDepth:        grid.MaxDepth[rng.Intn(len(grid.MaxDepth))],
			MinSamplesSplit: grid.MinSamplesSplit[rng.Intn(len(grid.MinSamplesSplit))],
			MinSamplesLeaf:  grid.MinSamplesLeaf[rng.Intn(len(grid.MinSamplesLeaf))],
			Bootstrap:       grid.Bootstrap[rng.Intn(len(grid.Bootstrap))],
			Seed:            seed,
		}
	}

	folded := split.KFold(len(X), folds, seed)

	evaluate := func(_ int, cfg forest.Config) Candidate {
		var total float64
		for _, fold := range folded {
			model := forest.New(cfg)
			// Trees already run on the shared pool; fitting folds
			// sequentially here keeps it from oversubscribing.
			if err := model.Fit(split.Subset(X, fold.TrainIdx), split.SubsetInts(y, fold.TrainIdx), nil); err != nil {
				return Candidate{Config: cfg}
			}
			pred := model.PredictBatch(split.Subset(X, fold.TestIdx))
			total += metrics.Accuracy(split.SubsetInts(y, fold.TestIdx), pred)
		}
		return Candidate{Config: cfg, MeanAccuracy: total / float64(len(folded))}
	}

	var candidates []Candidate
	if pool != nil {
		candidates = parallel.Map(pool, configs, evaluate)
	} else {
		candidates = make([]Candidate, len(configs))
		for i, cfg := range configs {
			candidates[i] = evaluate(i, cfg)
		}
	}

	best := 0
	for i, c := range candidates {
		if c.MeanAccuracy > candidates[best].MeanAccuracy {
			best = i
		}
	}

	model := forest.New(candidates[best].Config)
	if err := model.Fit(X, y, pool); err != nil {
		return nil, fmt.Errorf("tune: refitting best candidate: %w", err)
	}

	return &Result{
		Best:       model,
		BestConfig: candidates[best].Config,
		BestScore:  candidates[best].MeanAccuracy,
		Candidates: candidates,
	}, nil
}
