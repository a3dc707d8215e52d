// Package charts draws descriptive plots of a product table as SVG.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/fooddex/backend/internal/delivery/report"
	"github.com/fooddex/backend/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// ErrUnknownChart is returned for a chart kind that does not exist
var ErrUnknownChart = errors.New("unknown chart kind")

// Chart kinds served by the API
const (
	KindScatter   = "scatter"
	KindBar       = "bar"
	KindPie       = "pie"
	KindHistogram = "histogram"
)

// Kinds lists the default charts in display order
var Kinds = []string{KindScatter, KindBar, KindPie, KindHistogram}

// Named colors shared by the charts
var (
	green      = color.RGBA{R: 0, G: 128, B: 0, A: 255}
	lightGreen = color.RGBA{R: 144, G: 238, B: 144, A: 255}
	yellow     = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	orange     = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	red        = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	gray       = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	blue       = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	black      = color.RGBA{A: 255}
)

// Chart is a finished plot with its output size
type Chart struct {
	Title  string
	plot   *plot.Plot
	width  vg.Length
	height vg.Length
}

func newChart(title string, width, height vg.Length) *Chart {
	p := plot.New()
	p.Title.Text = title
	return &Chart{Title: title, plot: p, width: width, height: height}
}

// WriteSVG renders the chart as an SVG document
func (c *Chart) WriteSVG(w io.Writer) error {
	wt, err := c.plot.WriterTo(c.width, c.height, "svg")
	if err != nil {
		return fmt.Errorf("render %q: %w", c.Title, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// InlineSVG renders the chart as an <svg> element suitable for embedding in HTML
func (c *Chart) InlineSVG() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.WriteSVG(&buf); err != nil {
		return nil, err
	}
	out := buf.Bytes()
	if i := bytes.Index(out, []byte("<svg")); i > 0 {
		out = out[i:]
	}
	return out, nil
}

// ByKind builds one of the default charts
func ByKind(t report.Table, kind string) (*Chart, error) {
	switch kind {
	case KindScatter:
		return Scatter(t)
	case KindBar:
		return Bar(t, domain.ColumnBrand, domain.ColumnEnergy, "Energy Content by Brand", "Brand", "Energy (kcal/100g)")
	case KindPie:
		return Pie(t, domain.ColumnNutriScore, "Distribution of Nutri-Score")
	case KindHistogram:
		return Histogram(t, domain.ColumnEnergy, "Energy Content Distribution", "Energy (kcal/100g)", "Frequency")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownChart, kind)
	}
}

// Defaults builds the four default charts in Kinds order
func Defaults(t report.Table) ([]*Chart, error) {
	out := make([]*Chart, 0, len(Kinds))
	for _, kind := range Kinds {
		c, err := ByKind(t, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// numbers returns the float64 values of a column, skipping missing cells
func numbers(cells []report.Cell) []float64 {
	values := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if v, ok := cell.Value.(float64); ok {
			values = append(values, v)
		}
	}
	return values
}
