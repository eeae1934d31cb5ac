package train

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plot dimensions.
const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// PlotAccuracy saves a line chart of training and validation accuracy per epoch.
// The image format follows the file extension (".png", ".svg", ".pdf", ...).
func PlotAccuracy(results []EpochResult, path string) error {
	p, err := accuracyPlot(results)
	if err != nil {
		return err
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

// WriteAccuracyPlot renders the accuracy chart as PNG to w.
func WriteAccuracyPlot(w io.Writer, results []EpochResult) error {
	p, err := accuracyPlot(results)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

func accuracyPlot(results []EpochResult) (*plot.Plot, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no epochs to plot", ErrInvalidOptions)
	}

	p := plot.New()
	p.Title.Text = "Accuracy"
	p.X.Label.Text = "Epoch"
	p.Y.Label.Text = "Correct (%)"
	p.Y.Min = 0
	p.Y.Max = 100
	p.Add(plotter.NewGrid())

	series := []struct {
		name   string
		values []float64
	}{
		{"train", trainAccuracies(results)},
		{"validation", validationAccuracies(results)},
	}
	for i, s := range series {
		pts := make(plotter.XYs, len(results))
		for j, r := range results {
			pts[j].X = float64(r.Epoch)
			pts[j].Y = s.values[j]
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("%s series: %w", s.name, err)
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)

		p.Add(line, points)
		p.Legend.Add(s.name, line, points)
	}
	p.Legend.Top = false
	p.Legend.Left = false
	return p, nil
}
