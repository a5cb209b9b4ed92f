// Package outbreaks is the public API of the outbreak-surveillance
// analysis pipeline. It wires the internal stages together: CSV
// ingestion, cleaning, descriptive analytics, categorical encoding, the
// tree-ensemble and feed-forward classifiers, randomized hyperparameter
// search, and misclassification inspection.
package outbreaks

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/epiforge/outbreaks/internal/analytics"
	"github.com/epiforge/outbreaks/internal/config"
	"github.com/epiforge/outbreaks/internal/dataset"
	"github.com/epiforge/outbreaks/internal/encode"
	"github.com/epiforge/outbreaks/internal/forest"
	"github.com/epiforge/outbreaks/internal/frame"
	"github.com/epiforge/outbreaks/internal/inspect"
	"github.com/epiforge/outbreaks/internal/metrics"
	"github.com/epiforge/outbreaks/internal/neural"
	"github.com/epiforge/outbreaks/internal/parallel"
	"github.com/epiforge/outbreaks/internal/split"
	"github.com/epiforge/outbreaks/internal/tune"
	"github.com/epiforge/outbreaks/internal/viz"
)

// Plot filenames written under the configured output directory.
const (
	PlotTrend       = "yearly_trend.png"
	PlotTopStates   = "top_states.png"
	PlotImportances = "feature_importance.png"
	PlotHistory     = "training_history.png"
	PlotConfusion   = "confusion_matrix.png"
)

// Results aggregates everything a run computes, for reporting.
type Results struct {
	Rows    int
	Missing []dataset.MissingCount
	Preview string

	Trend        []analytics.TrendPoint
	TopFoods     []analytics.RankEntry
	TopLocations []analytics.RankEntry
	TopStates    []analytics.StateEntry

	FeatureNames []string

	ForestAccuracy float64
	ForestReport   []metrics.ClassMetrics
	Importances    []float64

	NetworkAccuracy  float64
	NetworkReport    []metrics.ClassMetrics
	NetworkConfusion [2][2]int
	History          *neural.History

	TunedConfig   forest.Config
	TunedCVScore  float64
	TunedAccuracy float64
	TunedReport   []metrics.ClassMetrics

	Inspection    *frame.DataFrame
	Misclassified *frame.DataFrame
}

// Run executes the full pipeline. Both classifiers are evaluated on one
// shared held-out partition drawn once from the configured seed; the
// encoders and scaler are fit over the full dataset before that split,
// so reported metrics include the resulting fit-before-split effect.
func Run(cfg config.Config) (*Results, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slog.Default()
	mem := memory.NewGoAllocator()
	results := &Results{FeatureNames: encode.FeatureColumns}

	// Ingestion and cleaning.
	raw, err := dataset.LoadCSV(cfg.DataPath, dataset.DefaultCSVOptions(), mem)
	if err != nil {
		return nil, err
	}
	results.Rows = raw.Len()
	logger.Info("loaded outbreak reports", "path", cfg.DataPath, "rows", raw.Len())

	results.Missing, err = dataset.MissingCounts(raw)
	if err != nil {
		return nil, err
	}

	cleaned, err := dataset.Clean(raw, mem)
	if err != nil {
		return nil, err
	}
	results.Preview = cleaned.String()

	// Descriptive analytics.
	if results.Trend, err = analytics.YearlyTrend(cleaned, mem); err != nil {
		return nil, err
	}
	if results.TopFoods, err = analytics.TopFoods(cleaned, cfg.TopN, mem); err != nil {
		return nil, err
	}
	if results.TopLocations, err = analytics.TopLocations(cleaned, cfg.TopN, mem); err != nil {
		return nil, err
	}
	if results.TopStates, err = analytics.TopStates(cleaned, cfg.TopN, mem); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, err
	}
	if err := viz.SaveTrend(results.Trend, filepath.Join(cfg.OutputDir, PlotTrend)); err != nil {
		return nil, err
	}
	if err := viz.SaveTopStates(results.TopStates, filepath.Join(cfg.OutputDir, PlotTopStates)); err != nil {
		return nil, err
	}
	logger.Info("descriptive analytics complete", "years", len(results.Trend))

	// Feature encoding and the shared split.
	encoders, err := encode.FitEncoders(cleaned, encode.CategoricalFeatures)
	if err != nil {
		return nil, err
	}
	features, err := encode.Features(cleaned, encoders)
	if err != nil {
		return nil, err
	}
	labels, err := encode.Labels(cleaned)
	if err != nil {
		return nil, err
	}

	part := split.TrainTest(len(features), cfg.TestRatio, cfg.Seed)
	trainX := split.Subset(features, part.TrainIdx)
	trainY := split.SubsetInts(labels, part.TrainIdx)
	testX := split.Subset(features, part.TestIdx)
	testY := split.SubsetInts(labels, part.TestIdx)

	pool := parallel.NewWorkerPool(cfg.Workers)
	defer pool.Close()

	// Tree ensemble.
	forestCfg := forest.DefaultConfig()
	forestCfg.Trees = cfg.Trees
	forestCfg.Seed = cfg.Seed

	model := forest.New(forestCfg)
	if err := model.Fit(trainX, trainY, pool); err != nil {
		return nil, err
	}
	forestPred := model.PredictBatch(testX)
	results.ForestAccuracy = metrics.Accuracy(testY, forestPred)
	results.ForestReport, err = metrics.Report(testY, forestPred)
	if err != nil {
		logger.Warn("forest report has an undefined metric", "cause", err)
	}
	results.Importances = model.FeatureImportances()
	if err := viz.SaveImportances(results.FeatureNames, results.Importances,
		filepath.Join(cfg.OutputDir, PlotImportances)); err != nil {
		return nil, err
	}
	logger.Info("tree ensemble evaluated", "accuracy", results.ForestAccuracy)

	// Persist the fitted model with everything needed to score later.
	scaler := encode.FitScaler(features)
	bundle := &forest.Bundle{
		Model:    model,
		Encoders: encoders,
		Scaler:   scaler,
		Metadata: forest.Metadata{
			TrainedAt:    time.Now(),
			Rows:         len(features),
			FeatureNames: results.FeatureNames,
			Accuracy:     results.ForestAccuracy,
		},
	}
	if err := forest.SaveBundle(cfg.ModelPath, bundle); err != nil {
		return nil, err
	}
	logger.Info("model bundle saved", "path", cfg.ModelPath)

	// Feed-forward network on the standardized matrix, same partition.
	scaled := scaler.Transform(features)
	trainXs := split.Subset(scaled, part.TrainIdx)
	testXs := split.Subset(scaled, part.TestIdx)

	netCfg := neural.DefaultConfig()
	netCfg.Epochs = cfg.Epochs
	netCfg.BatchSize = cfg.BatchSize
	netCfg.Seed = cfg.Seed

	net := neural.New(netCfg, len(encode.FeatureColumns))
	results.History, err = net.Fit(trainXs, trainY)
	if err != nil {
		return nil, err
	}
	netPred := net.Predict(testXs)
	results.NetworkAccuracy = metrics.Accuracy(testY, netPred)
	results.NetworkConfusion = metrics.ConfusionMatrix(testY, netPred)
	results.NetworkReport, err = metrics.Report(testY, netPred)
	if err != nil {
		logger.Warn("network report has an undefined metric", "cause", err)
	}
	if err := viz.SaveHistory(results.History, filepath.Join(cfg.OutputDir, PlotHistory)); err != nil {
		return nil, err
	}
	logger.Info("network evaluated", "accuracy", results.NetworkAccuracy)

	// Randomized hyperparameter search over the tree ensemble.
	search, err := tune.RandomizedSearch(trainX, trainY, tune.DefaultGrid(),
		cfg.SearchIterations, cfg.CVFolds, cfg.Seed, pool)
	if err != nil {
		return nil, err
	}
	tunedPred := search.Best.PredictBatch(testX)
	results.TunedConfig = search.BestConfig
	results.TunedCVScore = search.BestScore
	results.TunedAccuracy = metrics.Accuracy(testY, tunedPred)
	results.TunedReport, err = metrics.Report(testY, tunedPred)
	if err != nil {
		logger.Warn("tuned report has an undefined metric", "cause", err)
	}
	logger.Info("hyperparameter search complete",
		"config", results.TunedConfig.String(), "accuracy", results.TunedAccuracy)

	// Misclassification inspection over the network predictions.
	results.Inspection, results.Misclassified, err = inspect.Errors(
		testXs, results.FeatureNames, testY, netPred, mem)
	if err != nil {
		return nil, err
	}
	if err := viz.SaveConfusion(results.NetworkConfusion,
		filepath.Join(cfg.OutputDir, PlotConfusion)); err != nil {
		return nil, err
	}
	logger.Info("error inspection complete",
		"misclassified", results.Misclassified.Len(), "held_out", len(testY))

	return results, nil
}
