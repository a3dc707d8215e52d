package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/fooddex/backend/internal/domain"
)

// ProductResolver turns one barcode into one dataset row
type ProductResolver struct {
	client domain.OpenFoodFactsClient
}

// NewProductResolver creates a new product resolver
func NewProductResolver(client domain.OpenFoodFactsClient) *ProductResolver {
	return &ProductResolver{client: client}
}

// Resolve fetches the product for barcode. Any failure, a malformed response
// included, is logged and produces a row carrying the Error Record.
func (r *ProductResolver) Resolve(ctx context.Context, barcode string) domain.Row {
	product, err := r.client.GetProduct(ctx, barcode)
	if err == nil && product == nil {
		err = fmt.Errorf("%w: empty product", domain.ErrMalformedResponse)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrResolveFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrResolveFailed, err)
		}
		log.Printf("[RESOLVE] Error fetching details for product %s: %v", barcode, err)
		return domain.Row{
			Requested: barcode,
			Product:   domain.ErrorRecord(),
			Err:       err,
		}
	}

	return domain.Row{
		Requested: barcode,
		Product:   *product,
	}
}
