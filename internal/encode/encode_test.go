package encode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epiforge/outbreaks/internal/dataset"
	"github.com/epiforge/outbreaks/internal/encode"
	"github.com/epiforge/outbreaks/internal/oberrors"
	"github.com/epiforge/outbreaks/internal/testutil"
)

func TestFitLabelEncoder(t *testing.T) {
	e := encode.FitLabelEncoder("State", []string{"TX", "CA", "TX", "NY"})

	// Codes follow sorted lexical order of the distinct values.
	assert.Equal(t, []string{"CA", "NY", "TX"}, e.Classes)

	code, err := e.Code("NY")
	require.NoError(t, err)
	assert.Equal(t, 1, code)
}

func TestLabelEncoderRoundTrip(t *testing.T) {
	e := encode.FitLabelEncoder("Food", []string{"Chicken", "Beef", "Unknown"})

	for _, class := range e.Classes {
		code, err := e.Code(class)
		require.NoError(t, err)

		back, err := e.Inverse(code)
		require.NoError(t, err)
		assert.Equal(t, class, back)
	}
}

func TestLabelEncoderUnseen(t *testing.T) {
	e := encode.FitLabelEncoder("State", []string{"CA", "TX"})

	_, err := e.Code("ZZ")
	require.Error(t, err)
	assert.True(t, oberrors.IsKind(err, oberrors.KindEncoding))
	assert.Contains(t, err.Error(), "ZZ")

	_, err = e.Transform([]string{"CA", "ZZ"})
	assert.Error(t, err)
}

func TestLabelEncoderInverseOutOfRange(t *testing.T) {
	e := encode.FitLabelEncoder("State", []string{"CA"})

	_, err := e.Inverse(-1)
	assert.Error(t, err)
	_, err = e.Inverse(1)
	assert.Error(t, err)
}

func TestFitEncoders(t *testing.T) {
	mem := testutil.Allocator(t)
	cleaned := testutil.CleanedFrame(t, mem)

	encoders, err := encode.FitEncoders(cleaned, encode.CategoricalFeatures)
	require.NoError(t, err)
	require.Len(t, encoders, len(encode.CategoricalFeatures))

	assert.Equal(t, []string{"July", "June", "May"}, encoders[dataset.ColMonth].Classes)
	assert.Equal(t, []string{"CA", "TX"}, encoders[dataset.ColState].Classes)
}

func TestFeatures(t *testing.T) {
	mem := testutil.Allocator(t)
	cleaned := testutil.CleanedFrame(t, mem)

	encoders, err := encode.FitEncoders(cleaned, encode.CategoricalFeatures)
	require.NoError(t, err)

	matrix, err := encode.Features(cleaned, encoders)
	require.NoError(t, err)
	require.Len(t, matrix, 3)
	require.Len(t, matrix[0], len(encode.FeatureColumns))

	// Year passes through numerically.
	assert.Equal(t, 2010.0, matrix[0][0])
	assert.Equal(t, 2012.0, matrix[2][0])

	// State CA=0, TX=1.
	assert.Equal(t, 0.0, matrix[0][2])
	assert.Equal(t, 1.0, matrix[1][2])
}

func TestFeaturesMissingEncoder(t *testing.T) {
	mem := testutil.Allocator(t)
	cleaned := testutil.CleanedFrame(t, mem)

	_, err := encode.Features(cleaned, map[string]*encode.LabelEncoder{})
	require.Error(t, err)
	assert.True(t, oberrors.IsKind(err, oberrors.KindSchema))
}

func TestLabels(t *testing.T) {
	mem := testutil.Allocator(t)
	cleaned := testutil.CleanedFrame(t, mem)

	labels, err := encode.Labels(cleaned)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 1}, labels)
}

func TestStandardScaler(t *testing.T) {
	matrix := [][]float64{{1, 10}, {3, 10}, {5, 10}}
	scaler := encode.FitScaler(matrix)

	assert.InDelta(t, 3, scaler.Mean[0], 1e-12)
	assert.InDelta(t, 2, scaler.Std[0], 1e-12)

	scaled := scaler.Transform(matrix)
	assert.InDelta(t, -1, scaled[0][0], 1e-12)
	assert.InDelta(t, 0, scaled[1][0], 1e-12)
	assert.InDelta(t, 1, scaled[2][0], 1e-12)

	// A constant column centers without dividing by zero.
	for _, row := range scaled {
		assert.InDelta(t, 0, row[1], 1e-12)
	}
}

func TestStandardScalerEmpty(t *testing.T) {
	scaler := encode.FitScaler(nil)
	assert.Empty(t, scaler.Mean)
	assert.Empty(t, scaler.Transform(nil))
}
