// Package viz renders the pipeline's plots to PNG files. Each function
// is a pure mapping from already-computed values to plot primitives; no
// aggregation happens here.
package viz

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/epiforge/outbreaks/internal/analytics"
	"github.com/epiforge/outbreaks/internal/metrics"
	"github.com/epiforge/outbreaks/internal/neural"
)

// SaveTrend draws the yearly illness and hospitalization totals as two
// lines over years.
func SaveTrend(points []analytics.TrendPoint, path string) error {
	p := plot.New()
	p.Title.Text = "Yearly Trend of Illnesses and Hospitalizations"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Count"

	illnesses := make(plotter.XYs, len(points))
	hospitalizations := make(plotter.XYs, len(points))
	for i, pt := range points {
		illnesses[i] = plotter.XY{X: float64(pt.Year), Y: float64(pt.Illnesses)}
		hospitalizations[i] = plotter.XY{X: float64(pt.Year), Y: float64(pt.Hospitalizations)}
	}

	illLine, err := plotter.NewLine(illnesses)
	if err != nil {
		return fmt.Errorf("viz: trend illness line: %w", err)
	}
	illLine.Color = plotutil.Color(0)

	hospLine, err := plotter.NewLine(hospitalizations)
	if err != nil {
		return fmt.Errorf("viz: trend hospitalization line: %w", err)
	}
	hospLine.Color = plotutil.Color(1)

	p.Add(illLine, hospLine, plotter.NewGrid())
	p.Legend.Add("Illnesses", illLine)
	p.Legend.Add("Hospitalizations", hospLine)
	p.Legend.Top = true

	return save(p, path)
}

// SaveTopStates draws the top states by illness count as horizontal bars.
func SaveTopStates(entries []analytics.StateEntry, path string) error {
	p := plot.New()
	p.Title.Text = "Top States by Illness Count"
	p.X.Label.Text = "Number of Illnesses"

	values := make(plotter.Values, len(entries))
	labels := make([]string, len(entries))
	// Reverse so the largest bar renders at the top.
	for i, e := range entries {
		j := len(entries) - 1 - i
		values[j] = float64(e.Illnesses)
		labels[j] = e.State
	}

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return fmt.Errorf("viz: state bars: %w", err)
	}
	bars.Horizontal = true
	bars.Color = plotutil.Color(2)

	p.Add(bars)
	p.NominalY(labels...)

	return save(p, path)
}

// SaveImportances draws per-feature importance scores as horizontal
// bars, smallest first, mirroring the report ordering.
func SaveImportances(names []string, scores []float64, path string) error {
	if len(names) != len(scores) {
		return fmt.Errorf("viz: %d names for %d scores", len(names), len(scores))
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	for i := range order {
		for j := i + 1; j < len(order); j++ {
			if scores[order[j]] < scores[order[i]] {
				order[i], order[j] = order[j], order[i]
			}
		}
	}

	p := plot.New()
	p.Title.Text = "Feature Importance - Random Forest"
	p.X.Label.Text = "Importance Score"

	values := make(plotter.Values, len(order))
	labels := make([]string, len(order))
	for i, idx := range order {
		values[i] = scores[idx]
		labels[i] = names[idx]
	}

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return fmt.Errorf("viz: importance bars: %w", err)
	}
	bars.Horizontal = true
	bars.Color = plotutil.Color(3)

	p.Add(bars)
	p.NominalY(labels...)

	return save(p, path)
}

// SaveHistory draws the per-epoch accuracy and loss curves for the
// training and validation portions on one canvas.
func SaveHistory(h *neural.History, path string) error {
	p := plot.New()
	p.Title.Text = "Model Accuracy and Loss Over Epochs"
	p.X.Label.Text = "Epoch"

	curves := []struct {
		name   string
		values []float64
	}{
		{"Train Accuracy", h.TrainAcc},
		{"Validation Accuracy", h.ValAcc},
		{"Train Loss", h.TrainLoss},
		{"Validation Loss", h.ValLoss},
	}

	for i, curve := range curves {
		if len(curve.values) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(curve.values))
		for e, v := range curve.values {
			xys[e] = plotter.XY{X: float64(e), Y: v}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("viz: history %s: %w", curve.name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(curve.name, line)
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	return save(p, path)
}

// confusionGrid adapts a 2x2 confusion matrix to the heatmap grid
// interface.
type confusionGrid struct {
	cm [2][2]int
}

func (g confusionGrid) Dims() (c, r int) { return 2, 2 }

func (g confusionGrid) X(c int) float64 { return float64(c) }

func (g confusionGrid) Y(r int) float64 { return float64(r) }

func (g confusionGrid) Z(c, r int) float64 {
	// Row 0 of the matrix (actual negative) renders at the top.
	return float64(g.cm[1-r][c])
}

// SaveConfusion renders the confusion matrix as an annotated heatmap.
func SaveConfusion(cm [2][2]int, path string) error {
	p := plot.New()
	p.Title.Text = "Confusion Matrix"
	p.X.Label.Text = "Predicted"
	p.Y.Label.Text = "Actual"

	heat := plotter.NewHeatMap(confusionGrid{cm: cm}, palette.Heat(12, 1))
	p.Add(heat)

	var labels plotter.XYLabels
	for r := range 2 {
		for c := range 2 {
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(c), Y: float64(1 - r)})
			labels.Labels = append(labels.Labels, fmt.Sprintf("%d", cm[r][c]))
		}
	}
	annotations, err := plotter.NewLabels(labels)
	if err != nil {
		return fmt.Errorf("viz: confusion labels: %w", err)
	}
	p.Add(annotations)

	ticks := []plot.Tick{
		{Value: 0, Label: metrics.ClassNames[0]},
		{Value: 1, Label: metrics.ClassNames[1]},
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Marker = plot.ConstantTicks([]plot.Tick{
		{Value: 1, Label: metrics.ClassNames[0]},
		{Value: 0, Label: metrics.ClassNames[1]},
	})

	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("viz: saving %s: %w", path, err)
	}
	return nil
}
