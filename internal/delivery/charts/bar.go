package charts

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fooddex/backend/internal/delivery/report"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// viridisStops are evenly spaced samples of the viridis colormap
var viridisStops = []color.RGBA{
	{R: 0x44, G: 0x01, B: 0x54, A: 255},
	{R: 0x3b, G: 0x52, B: 0x8b, A: 255},
	{R: 0x21, G: 0x91, B: 0x8c, A: 255},
	{R: 0x5e, G: 0xc9, B: 0x62, A: 255},
	{R: 0xfd, G: 0xe7, B: 0x25, A: 255},
}

// Viridis returns n colors spread across the viridis colormap
func Viridis(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		pos := 0.5
		if n > 1 {
			pos = float64(i) / float64(n-1)
		}
		out[i] = interpolate(viridisStops, pos)
	}
	return out
}

func interpolate(stops []color.RGBA, pos float64) color.RGBA {
	scaled := pos * float64(len(stops)-1)
	lo := int(math.Floor(scaled))
	if lo >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	frac := scaled - float64(lo)
	a, b := stops[lo], stops[lo+1]
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + frac*(float64(y)-float64(x))))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// Group is one bar: a category label and the mean of its numeric values
type Group struct {
	Label string
	Mean  float64
	Count int
}

// GroupMeans averages the numeric y cells per distinct x cell. Labels are
// grouped case-insensitively and keep the spelling first seen; groups keep
// first-appearance order. Rows with a missing x or y are skipped.
func GroupMeans(t report.Table, xColumn, yColumn string) []Group {
	xs := t.Column(xColumn)
	ys := t.Column(yColumn)
	if xs == nil || ys == nil {
		return nil
	}

	index := make(map[string]int)
	var groups []Group
	var sums []float64
	for i := range xs {
		if xs[i].Missing() {
			continue
		}
		y, ok := ys[i].Value.(float64)
		if !ok {
			continue
		}
		key := report.Fold(xs[i].Text)
		j, seen := index[key]
		if !seen {
			j = len(groups)
			index[key] = j
			groups = append(groups, Group{Label: xs[i].Text})
			sums = append(sums, 0)
		}
		sums[j] += y
		groups[j].Count++
	}

	for j := range groups {
		groups[j].Mean = sums[j] / float64(groups[j].Count)
	}
	return groups
}

// Bar draws the mean of yColumn for each category of xColumn, one color per
// bar, with vertical category labels.
func Bar(t report.Table, xColumn, yColumn, title, xLabel, yLabel string) (*Chart, error) {
	c := newChart(title, 12*vg.Inch, 6*vg.Inch)
	p := c.plot
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	groups := GroupMeans(t, xColumn, yColumn)
	palette := Viridis(len(groups))
	labels := make([]string, len(groups))
	for i, g := range groups {
		b, err := plotter.NewBarChart(plotter.Values{g.Mean}, vg.Points(20))
		if err != nil {
			return nil, fmt.Errorf("bar %q: %w", g.Label, err)
		}
		b.XMin = float64(i)
		b.Color = palette[i]
		b.LineStyle.Width = 0
		p.Add(b)
		labels[i] = g.Label
	}

	if len(labels) > 0 {
		p.NominalX(labels...)
	}
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return c, nil
}
