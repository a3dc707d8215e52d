package openfoodfacts

import (
	"fmt"
	"strings"

	"github.com/fooddex/backend/internal/domain"
)

// MapToProduct converts a v3 product response to the domain Product.
// The top-level code is required; every other field falls back to missing.
func MapToProduct(resp *domain.OFFProductResponse) (*domain.Product, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", domain.ErrMalformedResponse)
	}
	if !resp.Code.Valid || strings.TrimSpace(resp.Code.Value) == "" {
		return nil, fmt.Errorf("%w: missing code", domain.ErrMalformedResponse)
	}

	product := &domain.Product{Barcode: resp.Code.Value}

	p := resp.Product
	if p == nil {
		return product, nil
	}

	product.Name = p.ProductName.Ptr()
	product.Brand = p.Brands.Ptr()
	product.NutriScore = p.NutriscoreGrade.Ptr()
	product.Nova = p.NovaGroup.Ptr()
	if p.NovaGroupsTags != nil {
		product.NovaTags = []string(p.NovaGroupsTags)
	}
	product.Energy = p.Nutriments.EnergyKcal100g.Ptr()
	product.Fat = p.NutrientLevels.Fat.Ptr()
	product.Salt = p.NutrientLevels.Salt.Ptr()
	product.Saturated = p.NutrientLevels.SaturatedFat.Ptr()
	product.Sugars = p.NutrientLevels.Sugars.Ptr()
	product.IngredientsN = p.IngredientsN.Ptr()
	product.Ingredients = p.IngredientsTextEn.Ptr()
	product.Category = p.Categories.Ptr()
	product.Image = p.ImageFrontSmallURL.Ptr()

	return product, nil
}

// ExtractBarcodes returns the codes of the search entries that carry one
func ExtractBarcodes(resp *domain.OFFSearchResponse) []string {
	barcodes := make([]string, 0, len(resp.Products))
	for _, entry := range resp.Products {
		if !entry.Code.Valid || entry.Code.Value == "" {
			continue
		}
		barcodes = append(barcodes, entry.Code.Value)
	}
	return barcodes
}
