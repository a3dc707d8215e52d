package charts

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fooddex/backend/internal/delivery/report"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Slice is one wedge of a pie chart
type Slice struct {
	Label string
	Value float64
	Color color.Color
	// Offset pushes the wedge outward as a fraction of the radius
	Offset float64
}

var gradeSlices = []Slice{
	{Label: "a", Color: green, Offset: 0.1},
	{Label: "b", Color: lightGreen},
	{Label: "c", Color: yellow},
	{Label: "d", Color: orange},
	{Label: "e", Color: red},
}

// GradeCounts counts the case-folded values of column that are grades a..e.
// Other values and missing cells are ignored.
func GradeCounts(t report.Table, column string) []Slice {
	slices := make([]Slice, len(gradeSlices))
	copy(slices, gradeSlices)

	index := make(map[string]int, len(slices))
	for i, s := range slices {
		index[s.Label] = i
	}
	for _, cell := range t.Column(column) {
		v, ok := cell.Value.(string)
		if !ok {
			continue
		}
		if i, ok := index[report.Fold(v)]; ok {
			slices[i].Value++
		}
	}
	return slices
}

// Pie draws the grade distribution of column, a..e, with the first wedge
// offset and percentage labels.
func Pie(t report.Table, column, title string) (*Chart, error) {
	c := newChart(title, 8*vg.Inch, 8*vg.Inch)
	c.plot.HideAxes()
	c.plot.Add(&pie{slices: GradeCounts(t, column)})
	return c, nil
}

// pie is a plot.Plotter that fills the data area with wedges drawn
// counterclockwise from twelve o'clock.
type pie struct {
	slices []Slice
}

func (pc *pie) total() float64 {
	var sum float64
	for _, s := range pc.slices {
		sum += s.Value
	}
	return sum
}

// Plot implements plot.Plotter
func (pc *pie) Plot(c draw.Canvas, plt *plot.Plot) {
	total := pc.total()
	if total <= 0 {
		return
	}

	center := vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: (c.Min.Y + c.Max.Y) / 2}
	radius := min(c.Max.X-c.Min.X, c.Max.Y-c.Min.Y) / 2 * 0.75

	sty := plt.Title.TextStyle
	sty.Font.Size = vg.Points(12)
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YCenter

	angle := math.Pi / 2
	for _, s := range pc.slices {
		if s.Value <= 0 {
			continue
		}
		sweep := 2 * math.Pi * s.Value / total
		mid := angle + sweep/2
		origin := along(center, mid, radius*vg.Length(s.Offset))

		var wedge vg.Path
		wedge.Move(origin)
		wedge.Arc(origin, radius, angle, sweep)
		wedge.Close()

		c.SetColor(s.Color)
		c.Fill(wedge)
		c.SetColor(color.White)
		c.SetLineWidth(vg.Points(1))
		c.Stroke(wedge)

		c.FillText(sty, along(origin, mid, radius*1.1), s.Label)
		c.FillText(sty, along(origin, mid, radius*0.6), fmt.Sprintf("%.1f%%", 100*s.Value/total))

		angle += sweep
	}
}

func along(from vg.Point, angle float64, dist vg.Length) vg.Point {
	return vg.Point{
		X: from.X + dist*vg.Length(math.Cos(angle)),
		Y: from.Y + dist*vg.Length(math.Sin(angle)),
	}
}
