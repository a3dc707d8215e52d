package usecase

import (
	"context"
	"log"
	"math/rand/v2"
	"sync"

	"github.com/fooddex/backend/internal/domain"
)

const defaultPageSize = 1000

// BarcodeSourceConfig holds configuration for the barcode source
type BarcodeSourceConfig struct {
	PageSize int
	Category string
	// Rand drives sampling; nil means an unseeded generator
	Rand *rand.Rand
}

// BarcodeSource draws random barcodes from the Open Food Facts search endpoint
type BarcodeSource struct {
	client   domain.OpenFoodFactsClient
	pageSize int
	category string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBarcodeSource creates a new barcode source
func NewBarcodeSource(client domain.OpenFoodFactsClient, config BarcodeSourceConfig) *BarcodeSource {
	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	rng := config.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &BarcodeSource{
		client:   client,
		pageSize: pageSize,
		category: config.Category,
		rng:      rng,
	}
}

// Fetch returns count distinct barcodes sampled without replacement from the
// candidate pool. A smaller pool is returned whole. A search failure is logged
// and yields an empty list with a nil error.
func (s *BarcodeSource) Fetch(ctx context.Context, count int) ([]string, error) {
	if count < 1 {
		return nil, domain.ErrInvalidRequest
	}

	candidates, err := s.client.SearchBarcodes(ctx, domain.SearchParams{
		PageSize: s.pageSize,
		Category: s.category,
	})
	if err != nil {
		log.Printf("[SOURCE] Failed to retrieve data: %v", err)
		return []string{}, nil
	}

	pool := uniqueBarcodes(candidates)
	if len(pool) < count {
		log.Printf("[SOURCE] Not enough barcodes found. Only %d available.", len(pool))
		return pool, nil
	}

	return s.sample(pool, count), nil
}

// sample runs a partial Fisher-Yates shuffle over pool and returns its first
// count elements. pool is reordered in place.
func (s *BarcodeSource) sample(pool []string, count int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < count; i++ {
		j := i + s.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	picked := make([]string, count)
	copy(picked, pool[:count])
	return picked
}

// uniqueBarcodes drops repeated codes, keeping first occurrences in order
func uniqueBarcodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	unique := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		unique = append(unique, code)
	}
	return unique
}
