package forest

import (
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"github.com/epiforge/outbreaks/internal/encode"
	"github.com/epiforge/outbreaks/internal/oberrors"
)

// DefaultArtifactName is the stable name the pipeline persists the
// fitted model under.
const DefaultArtifactName = "model.gob"

// Bundle packages a fitted classifier with everything a later process
// needs to score new records without retraining.
type Bundle struct {
	Model    *Classifier
	Encoders map[string]*encode.LabelEncoder
	Scaler   *encode.StandardScaler
	Metadata Metadata
}

// Metadata describes how the bundled model was produced.
type Metadata struct {
	TrainedAt    time.Time
	Rows         int
	FeatureNames []string
	Accuracy     float64
}

// SaveBundle writes the bundle to path with encoding/gob.
func SaveBundle(path string, b *Bundle) error {
	const op = "SaveBundle"

	file, err := os.Create(path)
	if err != nil {
		return oberrors.NewIO(op, path, err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(b); err != nil {
		return fmt.Errorf("%s: encoding bundle: %w", op, err)
	}
	return nil
}

// LoadBundle reads a bundle previously written by SaveBundle.
func LoadBundle(path string) (*Bundle, error) {
	const op = "LoadBundle"

	file, err := os.Open(path)
	if err != nil {
		return nil, oberrors.NewIO(op, path, err)
	}
	defer file.Close()

	var b Bundle
	if err := gob.NewDecoder(file).Decode(&b); err != nil {
		return nil, fmt.Errorf("%s: decoding bundle: %w", op, err)
	}
	return &b, nil
}
