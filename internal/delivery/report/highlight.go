package report

import (
	"github.com/fooddex/backend/internal/domain"
	"golang.org/x/text/cases"
)

// Traffic-light colors used for grade and level cells
const (
	ColorGreen      = "green"
	ColorLightGreen = "lightgreen"
	ColorYellow     = "yellow"
	ColorOrange     = "orange"
	ColorRed        = "red"
)

// highlightedColumns are the columns the coloring rule applies to
var highlightedColumns = map[string]bool{
	domain.ColumnNutriScore: true,
	domain.ColumnNova:       true,
	domain.ColumnFat:        true,
	domain.ColumnSalt:       true,
	domain.ColumnSaturated:  true,
	domain.ColumnSugars:     true,
}

var categoricalColors = map[string]string{
	"a":        ColorGreen,
	"low":      ColorGreen,
	"b":        ColorLightGreen,
	"c":        ColorYellow,
	"d":        ColorOrange,
	"moderate": ColorOrange,
	"e":        ColorRed,
	"high":     ColorRed,
}

var numericColors = map[float64]string{
	1: ColorGreen,
	2: ColorYellow,
	3: ColorOrange,
	4: ColorRed,
}

// CellColor returns the background color for a value in a column, or ""
// when the column is not highlighted or the value matches no tier.
func CellColor(column string, value any) string {
	if !highlightedColumns[column] {
		return ""
	}

	switch v := value.(type) {
	case string:
		return categoricalColors[Fold(v)]
	case float64:
		return numericColors[v]
	}
	return ""
}

// Highlight returns a copy of t with the coloring rule applied to every cell.
// The result depends only on column names and values, so applying it again
// changes nothing.
func Highlight(t Table) Table {
	styled := t.Clone()
	for _, row := range styled.Rows {
		for j := range row {
			row[j].Background = CellColor(row[j].Column, row[j].Value)
		}
	}
	return styled
}

// Fold returns the case-folded form of s used for matching and grouping.
// A Caser is stateful, so a fresh one is used per call.
func Fold(s string) string {
	return cases.Fold().String(s)
}
