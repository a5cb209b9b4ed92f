// Package inspect reconstructs a row-aligned view of held-out features
// against actual and predicted labels, for manual review of
// misclassifications.
package inspect

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/epiforge/outbreaks/internal/frame"
)

// Errors builds the full review frame (feature columns, Actual,
// Predicted) and the subset where Actual != Predicted. A row with
// Actual=1, Predicted=0 is a false negative; Actual=0, Predicted=1 a
// false positive.
func Errors(X [][]float64, columns []string, yTrue, yPred []int, mem memory.Allocator) (full, wrong *frame.DataFrame, err error) {
	if len(X) != len(yTrue) || len(yTrue) != len(yPred) {
		return nil, nil, fmt.Errorf("inspect: %d rows, %d actuals, %d predictions",
			len(X), len(yTrue), len(yPred))
	}
	if len(X) > 0 && len(X[0]) != len(columns) {
		return nil, nil, fmt.Errorf("inspect: %d feature columns named for width %d",
			len(columns), len(X[0]))
	}

	series := make([]frame.ISeries, 0, len(columns)+2)
	for c, name := range columns {
		values := make([]float64, len(X))
		for r, row := range X {
			values[r] = row[c]
		}
		series = append(series, frame.New(name, values, mem))
	}

	actual := make([]int64, len(yTrue))
	predicted := make([]int64, len(yPred))
	mask := make([]bool, len(yTrue))
	for i := range yTrue {
		actual[i] = int64(yTrue[i])
		predicted[i] = int64(yPred[i])
		mask[i] = yTrue[i] != yPred[i]
	}
	series = append(series,
		frame.New("Actual", actual, mem),
		frame.New("Predicted", predicted, mem),
	)

	full = frame.NewDataFrame(series...)
	wrong = full.FilterMask(mask, mem)
	return full, wrong, nil
}
