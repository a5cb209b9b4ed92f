package outbreaks_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	outbreaks "github.com/epiforge/outbreaks"
	"github.com/epiforge/outbreaks/internal/config"
	"github.com/epiforge/outbreaks/internal/forest"
)

var (
	months    = []string{"January", "April", "July", "October"}
	states    = []string{"California", "Texas", "New York", "Ohio"}
	locations = []string{"Restaurant", "Private Home", "School"}
	foods     = []string{"Chicken", "Beef", "Salad", ""}
)

// writeFixture generates a small surveillance CSV with both label classes
// and a scattering of missing cells.
func writeFixture(t *testing.T, rows int) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("Year,Month,State,Location,Food,Ingredient,Species,Serotype/Genotype,Status,Illnesses,Hospitalizations,Fatalities\n")
	for i := range rows {
		hospitalizations := ""
		if i%2 == 0 {
			hospitalizations = fmt.Sprintf("%d", 1+i%4)
		}
		fmt.Fprintf(&sb, "%d,%s,%s,%s,%s,,,,Confirmed,%d,%s,0\n",
			2000+i%10, months[i%len(months)], states[i%len(states)],
			locations[i%len(locations)], foods[i%len(foods)],
			5+i%20, hospitalizations)
	}

	path := filepath.Join(t.TempDir(), "outbreaks.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func testConfig(t *testing.T) config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.NewConfig()
	cfg.DataPath = writeFixture(t, 60)
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.ModelPath = filepath.Join(dir, forest.DefaultArtifactName)
	cfg.TopN = 3
	cfg.Trees = 10
	cfg.Epochs = 3
	cfg.BatchSize = 8
	cfg.SearchIterations = 2
	cfg.CVFolds = 2
	cfg.Workers = 2
	return cfg
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)

	results, err := outbreaks.Run(cfg)
	require.NoError(t, err)

	assert.Equal(t, 60, results.Rows)
	assert.NotEmpty(t, results.Preview)
	assert.Len(t, results.Trend, 10)
	assert.NotEmpty(t, results.TopFoods)
	assert.LessOrEqual(t, len(results.TopFoods), cfg.TopN)
	assert.LessOrEqual(t, len(results.TopStates), cfg.TopN)

	// Missing Food and Hospitalizations cells exist in the fixture.
	missing := make(map[string]int)
	for _, mc := range results.Missing {
		missing[mc.Column] = mc.Missing
	}
	assert.Positive(t, missing["Food"])
	assert.Positive(t, missing["Hospitalizations"])

	assert.GreaterOrEqual(t, results.ForestAccuracy, 0.0)
	assert.LessOrEqual(t, results.ForestAccuracy, 1.0)
	require.Len(t, results.Importances, len(results.FeatureNames))

	require.NotNil(t, results.History)
	assert.Len(t, results.History.TrainLoss, cfg.Epochs)
	assert.Len(t, results.History.ValLoss, cfg.Epochs)

	// Confusion cells total the held-out rows: ceil(60 * 0.3) = 18.
	cm := results.NetworkConfusion
	assert.Equal(t, 18, cm[0][0]+cm[0][1]+cm[1][0]+cm[1][1])
	assert.Equal(t, 18, results.Inspection.Len())
	assert.LessOrEqual(t, results.Misclassified.Len(), results.Inspection.Len())

	assert.Positive(t, results.TunedConfig.Trees)
	assert.GreaterOrEqual(t, results.TunedCVScore, 0.0)

	// All artifacts land on disk.
	for _, name := range []string{
		outbreaks.PlotTrend, outbreaks.PlotTopStates, outbreaks.PlotImportances,
		outbreaks.PlotHistory, outbreaks.PlotConfusion,
	} {
		info, err := os.Stat(filepath.Join(cfg.OutputDir, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}

	bundle, err := forest.LoadBundle(cfg.ModelPath)
	require.NoError(t, err)
	assert.Equal(t, 60, bundle.Metadata.Rows)
	assert.Equal(t, results.FeatureNames, bundle.Metadata.FeatureNames)
	assert.Len(t, bundle.Encoders, 4)
}

func TestRunDeterminism(t *testing.T) {
	cfg := testConfig(t)

	a, err := outbreaks.Run(cfg)
	require.NoError(t, err)
	b, err := outbreaks.Run(cfg)
	require.NoError(t, err)

	assert.Equal(t, a.ForestAccuracy, b.ForestAccuracy)
	assert.Equal(t, a.NetworkConfusion, b.NetworkConfusion)
	assert.Equal(t, a.TunedConfig, b.TunedConfig)
	assert.Equal(t, a.History, b.History)
}

func TestRunMissingData(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataPath = filepath.Join(t.TempDir(), "absent.csv")

	_, err := outbreaks.Run(cfg)
	assert.Error(t, err)
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.TestRatio = 2

	_, err := outbreaks.Run(cfg)
	assert.Error(t, err)
}
