package charts

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/fooddex/backend/internal/delivery/report"
	"github.com/fooddex/backend/internal/domain"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// NovaUnknown is the tier of a missing or unrecognized NOVA group
const NovaUnknown = "unknown"

type tier struct {
	label string
	color color.Color
}

var novaTiers = []tier{
	{"1", green},
	{"2", yellow},
	{"3", orange},
	{"4", red},
	{NovaUnknown, gray},
}

// NovaTier maps a NOVA cell value to "1".."4", truncating any fractional
// part, or to NovaUnknown.
func NovaTier(value any) string {
	var label string
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NovaUnknown
		}
		label = fmt.Sprintf("%d", int64(math.Trunc(v)))
	case string:
		label, _, _ = strings.Cut(strings.TrimSpace(v), ".")
	default:
		return NovaUnknown
	}

	for _, t := range novaTiers[:4] {
		if t.label == label {
			return label
		}
	}
	return NovaUnknown
}

// Scatter plots energy against the number of ingredients, one colored
// series per NOVA tier. Rows missing either coordinate are skipped.
func Scatter(t report.Table) (*Chart, error) {
	c := newChart("Energy vs Number of Ingredients (Coloured by NOVA Score)", 10*vg.Inch, 8*vg.Inch)
	p := c.plot
	p.X.Label.Text = "Number of Ingredients"
	p.Y.Label.Text = "Energy (kcal/100g)"
	p.Add(plotter.NewGrid())

	xs := t.Column(domain.ColumnIngredientsN)
	ys := t.Column(domain.ColumnEnergy)
	novas := t.Column(domain.ColumnNova)

	points := make(map[string]plotter.XYs, len(novaTiers))
	for i := range xs {
		x, okX := xs[i].Value.(float64)
		y, okY := ys[i].Value.(float64)
		if !okX || !okY {
			continue
		}
		label := NovaTier(novas[i].Value)
		points[label] = append(points[label], plotter.XY{X: x, Y: y})
	}

	for _, tr := range novaTiers {
		s, err := plotter.NewScatter(points[tr.label])
		if err != nil {
			return nil, fmt.Errorf("scatter tier %s: %w", tr.label, err)
		}
		s.GlyphStyle.Color = tr.color
		s.GlyphStyle.Radius = vg.Points(5)
		s.GlyphStyle.Shape = draw.CircleGlyph{}

		if len(points[tr.label]) > 0 {
			p.Add(s)
		}
		p.Legend.Add(tr.label, s)
	}
	p.Legend.Top = true

	return c, nil
}
