package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/arbor-data/preference.rank/internal/topsis"
)

// RenderScoreChart renders the ranking's preference scores as a bar chart PNG
// at path. Bars keep ranking order, best product first.
func RenderScoreChart(ranking []topsis.RankEntry, path string) error {
	if len(ranking) == 0 {
		return fmt.Errorf("nothing to chart: empty ranking")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Preference Scores - %s", ranking[0].Period)
	p.Y.Label.Text = "Preference Score"
	p.Y.Min = 0

	values := make(plotter.Values, len(ranking))
	labels := make([]string, len(ranking))
	for i, entry := range ranking {
		values[i] = entry.Score
		labels[i] = entry.Product
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.RGBA{R: 54, G: 162, B: 235, A: 255}

	p.Add(bars)
	p.NominalX(labels...)

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}
