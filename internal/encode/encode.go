// Package encode maps categorical columns to dense integer codes and
// standardizes feature matrices for the network model.
//
// Encoders and the scaler are fit once over the full dataset before any
// train/test split, reproducing the reference pipeline's behavior; the
// reported metrics therefore include that fit-before-split effect.
package encode

import (
	"sort"

	"github.com/epiforge/outbreaks/internal/dataset"
	"github.com/epiforge/outbreaks/internal/frame"
	"github.com/epiforge/outbreaks/internal/oberrors"
	"gonum.org/v1/gonum/stat"
)

// FeatureColumns is the model input, in fixed order. Year passes through
// numerically; the remainder are label-encoded.
var FeatureColumns = []string{
	dataset.ColYear, dataset.ColMonth, dataset.ColState,
	dataset.ColLocation, dataset.ColFood,
}

// CategoricalFeatures is FeatureColumns without the numeric Year.
var CategoricalFeatures = FeatureColumns[1:]

// LabelEncoder is a bijection from observed category values to dense
// integer codes. Codes follow sorted lexical order of the labels, so the
// mapping is deterministic for a given observed set.
type LabelEncoder struct {
	Column  string
	Classes []string // sorted; code of Classes[i] is i
}

// FitLabelEncoder fits an encoder over every distinct value of a column.
func FitLabelEncoder(column string, values []string) *LabelEncoder {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Strings(classes)
	return &LabelEncoder{Column: column, Classes: classes}
}

// Code returns the integer code for a category.
func (e *LabelEncoder) Code(value string) (int, error) {
	i := sort.SearchStrings(e.Classes, value)
	if i >= len(e.Classes) || e.Classes[i] != value {
		return 0, oberrors.NewEncoding("Code", e.Column, value)
	}
	return i, nil
}

// Transform encodes a column of values.
func (e *LabelEncoder) Transform(values []string) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		code, err := e.Code(v)
		if err != nil {
			return nil, err
		}
		out[i] = float64(code)
	}
	return out, nil
}

// Inverse returns the category for a code.
func (e *LabelEncoder) Inverse(code int) (string, error) {
	if code < 0 || code >= len(e.Classes) {
		return "", oberrors.NewSchema("Inverse", e.Column, "code out of range")
	}
	return e.Classes[code], nil
}

// FitEncoders fits one encoder per named column over the full frame.
func FitEncoders(df *frame.DataFrame, columns []string) (map[string]*LabelEncoder, error) {
	encoders := make(map[string]*LabelEncoder, len(columns))
	for _, col := range columns {
		values, err := df.Strings(col)
		if err != nil {
			return nil, err
		}
		encoders[col] = FitLabelEncoder(col, values)
	}
	return encoders, nil
}

// Features builds the model input matrix, one row per record, columns in
// FeatureColumns order.
func Features(df *frame.DataFrame, encoders map[string]*LabelEncoder) ([][]float64, error) {
	n := df.Len()
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, len(FeatureColumns))
	}

	years, err := df.IntColumnAsFloats(dataset.ColYear)
	if err != nil {
		return nil, err
	}
	for i, y := range years {
		matrix[i][0] = y
	}

	for c, col := range CategoricalFeatures {
		values, err := df.Strings(col)
		if err != nil {
			return nil, err
		}
		encoder, ok := encoders[col]
		if !ok {
			return nil, oberrors.NewSchema("Features", col, "no fitted encoder")
		}
		codes, err := encoder.Transform(values)
		if err != nil {
			return nil, err
		}
		for i, v := range codes {
			matrix[i][c+1] = v
		}
	}
	return matrix, nil
}

// Labels extracts the Hospitalized target column.
func Labels(df *frame.DataFrame) ([]int, error) {
	values, err := df.Ints(dataset.ColHospitalized)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}
	return out, nil
}

// StandardScaler shifts and scales each feature column to zero mean and
// unit variance.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

// FitScaler fits per-column mean and standard deviation over the full
// matrix.
func FitScaler(matrix [][]float64) *StandardScaler {
	if len(matrix) == 0 {
		return &StandardScaler{}
	}
	cols := len(matrix[0])
	scaler := &StandardScaler{
		Mean: make([]float64, cols),
		Std:  make([]float64, cols),
	}

	column := make([]float64, len(matrix))
	for c := range cols {
		for r := range matrix {
			column[r] = matrix[r][c]
		}
		mean, std := stat.MeanStdDev(column, nil)
		scaler.Mean[c] = mean
		scaler.Std[c] = std
	}
	return scaler
}

// Transform applies the fitted scaling. Columns with zero (or undefined)
// spread pass through centered only.
func (s *StandardScaler) Transform(matrix [][]float64) [][]float64 {
	out := make([][]float64, len(matrix))
	for r, row := range matrix {
		scaled := make([]float64, len(row))
		for c, v := range row {
			std := s.Std[c]
			if std == 0 || std != std { // NaN from single-row fits
				std = 1
			}
			scaled[c] = (v - s.Mean[c]) / std
		}
		out[r] = scaled
	}
	return out
}
