// Package report turns datasets into display tables and HTML.
package report

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/fooddex/backend/internal/domain"
)

// imageMaxHeight is the max-height applied to product thumbnails
const imageMaxHeight = "124px"

// Cell is one table cell
type Cell struct {
	Column string
	// Value is the raw field: nil, string, float64 or []string
	Value any
	// Text is what gets displayed; it is trusted markup when Markup is set
	Text       string
	Markup     bool
	Background string
}

// Missing reports whether the cell holds the missing-value marker
func (c Cell) Missing() bool {
	return c.Value == nil
}

// Table is a dataset projected onto the fixed product columns
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// ToTable projects a dataset onto domain.Columns, one table row per dataset row.
// The image column becomes an <img> tag referencing the image path.
func ToTable(dataset *domain.Dataset) Table {
	table := Table{
		Columns: append([]string(nil), domain.Columns...),
	}
	if dataset == nil {
		return table
	}

	table.Rows = make([][]Cell, len(dataset.Rows))
	for i, row := range dataset.Rows {
		values := row.Product.Values()
		cells := make([]Cell, len(values))
		for j, value := range values {
			cells[j] = newCell(domain.Columns[j], value)
		}
		table.Rows[i] = cells
	}

	return table
}

func newCell(column string, value any) Cell {
	cell := Cell{Column: column, Value: value, Text: FormatValue(value)}

	if column == domain.ColumnImage {
		if path, ok := value.(string); ok {
			cell.Text = ImageHTML(path)
			cell.Markup = true
		}
	}

	return cell
}

// ImageHTML converts an image path into an inline <img> tag
func ImageHTML(path string) string {
	return fmt.Sprintf(`<img src="%s" style="max-height:%s;"/>`, html.EscapeString(path), imageMaxHeight)
}

// FormatValue renders a raw field as display text
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return domain.MissingMarker
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprint(v)
	}
}

// ColumnIndex returns the position of a column, or -1
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns every cell of the named column in row order.
// An unknown column yields nil.
func (t Table) Column(name string) []Cell {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}

	cells := make([]Cell, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells = append(cells, row[idx])
	}
	return cells
}

// Clone returns a deep copy of the table's cell grid
func (t Table) Clone() Table {
	clone := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]Cell, len(t.Rows)),
	}
	for i, row := range t.Rows {
		clone.Rows[i] = append([]Cell(nil), row...)
	}
	return clone
}
