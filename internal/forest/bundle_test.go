package forest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epiforge/outbreaks/internal/encode"
	"github.com/epiforge/outbreaks/internal/oberrors"
)

func TestBundleRoundTrip(t *testing.T) {
	X, y := separable()

	cfg := DefaultConfig()
	cfg.Trees = 10
	model := New(cfg)
	require.NoError(t, model.Fit(X, y, nil))

	bundle := &Bundle{
		Model: model,
		Encoders: map[string]*encode.LabelEncoder{
			"State": {Column: "State", Classes: []string{"CA", "TX"}},
		},
		Scaler: &encode.StandardScaler{Mean: []float64{3, 5}, Std: []float64{2, 1}},
		Metadata: Metadata{
			TrainedAt:    time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
			Rows:         len(X),
			FeatureNames: []string{"offset", "noise"},
			Accuracy:     0.975,
		},
	}

	path := filepath.Join(t.TempDir(), DefaultArtifactName)
	require.NoError(t, SaveBundle(path, bundle))

	loaded, err := LoadBundle(path)
	require.NoError(t, err)

	assert.Equal(t, bundle.Metadata, loaded.Metadata)
	assert.Equal(t, bundle.Encoders, loaded.Encoders)
	assert.Equal(t, bundle.Scaler, loaded.Scaler)

	// The reloaded ensemble scores identically.
	assert.Equal(t, model.PredictBatch(X), loaded.Model.PredictBatch(X))
	assert.Equal(t, model.FeatureImportances(), loaded.Model.FeatureImportances())
}

func TestLoadBundleMissing(t *testing.T) {
	_, err := LoadBundle(filepath.Join(t.TempDir(), "absent.gob"))
	require.Error(t, err)
	assert.True(t, oberrors.IsKind(err, oberrors.KindIO))
}

func TestSaveBundleBadPath(t *testing.T) {
	err := SaveBundle(filepath.Join(t.TempDir(), "no", "such", "dir.gob"), &Bundle{})
	require.Error(t, err)
	assert.True(t, oberrors.IsKind(err, oberrors.KindIO))
}
