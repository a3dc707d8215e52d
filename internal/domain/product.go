package domain

// MissingMarker is how an absent field is displayed in tables
const MissingMarker = "NaN"

// ErrorBarcode is the barcode sentinel carried by an Error Record
const ErrorBarcode = "Error"

// Column names of a product table, in display order
const (
	ColumnBarcode      = "barcode"
	ColumnName         = "name"
	ColumnBrand        = "brand"
	ColumnNutriScore   = "nutri_score"
	ColumnNova         = "nova"
	ColumnNovaTag      = "nova_tag"
	ColumnEnergy       = "energy"
	ColumnFat          = "fat"
	ColumnSalt         = "salt"
	ColumnSaturated    = "saturated"
	ColumnSugars       = "sugars"
	ColumnIngredientsN = "ingredients_n"
	ColumnIngredients  = "ingredients"
	ColumnCategory     = "category"
	ColumnImage        = "image"
)

// Columns is the fixed column order of a product table.
// Product.Values must return values in exactly this order.
var Columns = []string{
	ColumnBarcode,
	ColumnName,
	ColumnBrand,
	ColumnNutriScore,
	ColumnNova,
	ColumnNovaTag,
	ColumnEnergy,
	ColumnFat,
	ColumnSalt,
	ColumnSaturated,
	ColumnSugars,
	ColumnIngredientsN,
	ColumnIngredients,
	ColumnCategory,
	ColumnImage,
}

// Product is the normalized record of one Open Food Facts product.
// A nil pointer (or nil slice) marks a field that was absent upstream.
type Product struct {
	Barcode      string   `json:"barcode"`
	Name         *string  `json:"name"`
	Brand        *string  `json:"brand"`
	NutriScore   *string  `json:"nutri_score"`
	Nova         *float64 `json:"nova"`
	NovaTags     []string `json:"nova_tag"`
	Energy       *float64 `json:"energy"` // kcal per 100g
	Fat          *string  `json:"fat"`
	Salt         *string  `json:"salt"`
	Saturated    *string  `json:"saturated"`
	Sugars       *string  `json:"sugars"`
	IngredientsN *float64 `json:"ingredients_n"`
	Ingredients  *string  `json:"ingredients"`
	Category     *string  `json:"category"`
	Image        *string  `json:"image"`
}

// ErrorRecord returns the record that stands in for a failed resolution
func ErrorRecord() Product {
	return Product{Barcode: ErrorBarcode}
}

// IsErrorRecord reports whether p carries the error sentinel
func (p Product) IsErrorRecord() bool {
	return p.Barcode == ErrorBarcode
}

// Values returns the record's fields in Columns order.
// Each element is nil, a string, a float64 or a []string.
func (p Product) Values() []any {
	return []any{
		p.Barcode,
		optional(p.Name),
		optional(p.Brand),
		optional(p.NutriScore),
		optional(p.Nova),
		tags(p.NovaTags),
		optional(p.Energy),
		optional(p.Fat),
		optional(p.Salt),
		optional(p.Saturated),
		optional(p.Sugars),
		optional(p.IngredientsN),
		optional(p.Ingredients),
		optional(p.Category),
		optional(p.Image),
	}
}

// Value returns a single field by column name. The second result is false
// for an unknown column.
func (p Product) Value(column string) (any, bool) {
	for i, name := range Columns {
		if name == column {
			return p.Values()[i], true
		}
	}
	return nil, false
}

func optional[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func tags(v []string) any {
	if v == nil {
		return nil
	}
	return v
}
