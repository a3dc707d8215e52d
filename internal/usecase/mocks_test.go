package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/fooddex/backend/internal/domain"
)

// MockOFFClient is a mock implementation of domain.OpenFoodFactsClient
type MockOFFClient struct {
	mu sync.Mutex

	searchResult []string
	searchError  error
	searchParams []domain.SearchParams

	products      map[string]*domain.Product
	productErrors map[string]error
	productCalls  []string
}

func NewMockOFFClient() *MockOFFClient {
	return &MockOFFClient{
		products:      make(map[string]*domain.Product),
		productErrors: make(map[string]error),
	}
}

func (m *MockOFFClient) SearchBarcodes(ctx context.Context, params domain.SearchParams) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.searchParams = append(m.searchParams, params)
	if m.searchError != nil {
		return nil, m.searchError
	}
	result := make([]string, len(m.searchResult))
	copy(result, m.searchResult)
	return result, nil
}

func (m *MockOFFClient) GetProduct(ctx context.Context, barcode string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.productCalls = append(m.productCalls, barcode)
	if err, ok := m.productErrors[barcode]; ok {
		return nil, err
	}
	if p, ok := m.products[barcode]; ok {
		return p, nil
	}
	return &domain.Product{Barcode: barcode}, nil
}

// MockDatasetStore is a mock implementation of domain.DatasetStore
type MockDatasetStore struct {
	data     map[string]*domain.Dataset
	setError error
	lastTTL  time.Duration
}

func NewMockDatasetStore() *MockDatasetStore {
	return &MockDatasetStore{data: make(map[string]*domain.Dataset)}
}

func (m *MockDatasetStore) Get(ctx context.Context, key string) (*domain.Dataset, error) {
	if ds, ok := m.data[key]; ok {
		return ds, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockDatasetStore) Set(ctx context.Context, key string, value *domain.Dataset, ttl time.Duration) error {
	if m.setError != nil {
		return m.setError
	}
	m.lastTTL = ttl
	m.data[key] = value
	return nil
}

func (m *MockDatasetStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockDatasetStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
