// Package metrics computes the evaluation numbers reported for both
// classifiers: accuracy, per-class precision/recall/F1, and the 2x2
// confusion matrix.
package metrics

import (
	"fmt"
	"strings"

	"github.com/epiforge/outbreaks/internal/oberrors"
)

// ClassNames orders the binary classes as reported everywhere:
// index 0 = no hospitalization, index 1 = hospitalization.
var ClassNames = [2]string{"No Hospitalization", "Hospitalization"}

// Accuracy is the fraction of matching predictions.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// ConfusionMatrix counts [[TN, FP], [FN, TP]]: rows are actual classes,
// columns predicted, both ordered per ClassNames.
func ConfusionMatrix(yTrue, yPred []int) [2][2]int {
	var cm [2][2]int
	for i := range yTrue {
		cm[yTrue[i]][yPred[i]]++
	}
	return cm
}

// ClassMetrics holds one class's report line.
type ClassMetrics struct {
	Class     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report computes per-class precision, recall, and F1 from a confusion
// matrix. When a class with support has no predicted samples its
// precision is undefined; the report still carries zeros for that class
// but a metric-kind error naming it is returned alongside, so callers
// decide whether to surface or tolerate it.
func Report(yTrue, yPred []int) ([]ClassMetrics, error) {
	cm := ConfusionMatrix(yTrue, yPred)

	var undefined error
	report := make([]ClassMetrics, 2)
	for class := range 2 {
		support := cm[class][0] + cm[class][1]
		predicted := cm[0][class] + cm[1][class]
		truePos := cm[class][class]

		m := ClassMetrics{Class: ClassNames[class], Support: support}
		if predicted > 0 {
			m.Precision = float64(truePos) / float64(predicted)
		} else if support > 0 {
			undefined = oberrors.NewMetric("Report", ClassNames[class],
				"precision undefined: class never predicted")
		}
		if support > 0 {
			m.Recall = float64(truePos) / float64(support)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report[class] = m
	}
	return report, undefined
}

// FormatReport renders a classification report table.
func FormatReport(report []ClassMetrics) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-22s %9s %9s %9s %9s\n", "", "precision", "recall", "f1-score", "support")
	total := 0
	for _, m := range report {
		fmt.Fprintf(&sb, "%-22s %9.2f %9.2f %9.2f %9d\n",
			m.Class, m.Precision, m.Recall, m.F1, m.Support)
		total += m.Support
	}
	fmt.Fprintf(&sb, "%-22s %29s %9d\n", "total", "", total)
	return sb.String()
}

// FormatConfusion renders the 2x2 grid for console output.
func FormatConfusion(cm [2][2]int) string {
	return fmt.Sprintf("[[%d %d]\n [%d %d]]", cm[0][0], cm[0][1], cm[1][0], cm[1][1])
}
