package charts

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fooddex/backend/internal/delivery/report"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// HistogramBins is the number of equal-width bins
const HistogramBins = 10

// Histogram draws the distribution of a numeric column as ten bins with a
// Gaussian kernel density curve scaled to bin counts. Missing cells are
// skipped.
func Histogram(t report.Table, column, title, xLabel, yLabel string) (*Chart, error) {
	c := newChart(title, 10*vg.Inch, 6*vg.Inch)
	p := c.plot
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	values := numbers(t.Column(column))
	if len(values) == 0 {
		return c, nil
	}

	h, err := plotter.NewHist(plotter.Values(values), HistogramBins)
	if err != nil {
		return nil, fmt.Errorf("histogram %s: %w", column, err)
	}
	h.FillColor = color.RGBA{R: 70, G: 130, B: 180, A: 160}
	h.LineStyle.Color = black
	p.Add(h)

	bw := Bandwidth(values)
	if bw <= 0 {
		return c, nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lo, hi = lo-3*bw, hi+3*bw

	scale := float64(len(values)) * h.Width
	kde := plotter.NewFunction(func(x float64) float64 {
		return scale * Density(values, bw, x)
	})
	kde.XMin, kde.XMax = lo, hi
	kde.Samples = 200
	kde.Color = blue
	kde.Width = vg.Points(2)
	p.Add(kde)

	p.X.Min = math.Min(p.X.Min, lo)
	p.X.Max = math.Max(p.X.Max, hi)

	return c, nil
}

// Bandwidth is Scott's rule for a Gaussian kernel. It is zero when there
// are fewer than two values or they have no spread.
func Bandwidth(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	_, sd := stat.MeanStdDev(values, nil)
	return sd * math.Pow(float64(len(values)), -0.2)
}

// Density evaluates the Gaussian kernel density estimate at x
func Density(values []float64, bw, x float64) float64 {
	if len(values) == 0 || bw <= 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += distuv.Normal{Mu: v, Sigma: bw}.Prob(x)
	}
	return sum / float64(len(values))
}
