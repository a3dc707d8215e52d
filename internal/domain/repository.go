package domain

import (
	"context"
	"time"
)

// DatasetStore keeps dataset snapshots in memory for a limited time
type DatasetStore interface {
	Get(ctx context.Context, key string) (*Dataset, error)
	Set(ctx context.Context, key string, value *Dataset, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// OpenFoodFactsClient defines the interface for interacting with the Open Food Facts API
type OpenFoodFactsClient interface {
	SearchBarcodes(ctx context.Context, params SearchParams) ([]string, error)
	GetProduct(ctx context.Context, barcode string) (*Product, error)
}

// SearchParams narrows the candidate pool returned by the search endpoint
type SearchParams struct {
	PageSize int
	Category string // optional tag_0 value
}
