// Package plot renders the ensemble distributions as PNG histograms. It only
// consumes value sequences and bin counts; nothing here feeds back into the
// analysis.
package plot

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SeatHistogram draws one bar per integer seat count, covering [0, max].
func SeatHistogram(path string, counts map[int]int) error {
	var seats []int
	for s := range counts {
		seats = append(seats, s)
	}
	sort.Ints(seats)

	values := make(plotter.Values, len(seats))
	labels := make([]string, len(seats))
	for i, s := range seats {
		values[i] = float64(counts[s])
		labels[i] = fmt.Sprintf("%d", s)
	}

	p := plot.New()
	p.Title.Text = "Republican wins in ReCom ensemble"
	p.X.Label.Text = "Number of Republican wins"
	p.Y.Label.Text = "Number of plans"

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("failed to build seat histogram: %w", err)
	}
	p.Add(bars)
	p.NominalX(labels...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save seat histogram: %w", err)
	}
	return nil
}

// GapHistogram draws a histogram of efficiency gaps with the given bin count.
func GapHistogram(path string, gaps []float64, bins int) error {
	values := make(plotter.Values, len(gaps))
	copy(values, gaps)

	p := plot.New()
	p.Title.Text = "Efficiency gaps in ReCom ensemble (Rep - Dem)"
	p.X.Label.Text = "Efficiency gap"
	p.Y.Label.Text = "Number of plans"

	hist, err := plotter.NewHist(values, bins)
	if err != nil {
		return fmt.Errorf("failed to build gap histogram: %w", err)
	}
	p.Add(hist)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save gap histogram: %w", err)
	}
	return nil
}
