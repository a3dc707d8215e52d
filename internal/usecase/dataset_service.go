package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fooddex/backend/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxDatasetSize caps the number of barcodes per dataset; it matches the search page size limit
	MaxDatasetSize = 1000

	// DefaultSampleCount is the dataset size when neither the request nor the config names one
	DefaultSampleCount = 10
)

// BarcodeFetcher supplies the barcodes a dataset is built from
type BarcodeFetcher interface {
	Fetch(ctx context.Context, count int) ([]string, error)
}

// Resolver resolves a single barcode into a dataset row
type Resolver interface {
	Resolve(ctx context.Context, barcode string) domain.Row
}

// DatasetServiceConfig holds configuration for the dataset service
type DatasetServiceConfig struct {
	DefaultCount int
	Concurrency  int
	SnapshotTTL  time.Duration
}

// DatasetService assembles datasets and keeps recent ones as snapshots
type DatasetService struct {
	source       BarcodeFetcher
	resolver     Resolver
	store        domain.DatasetStore
	defaultCount int
	concurrency  int
	snapshotTTL  time.Duration

	now   func() time.Time
	newID func() string
}

// NewDatasetService creates a new dataset service with dependencies
func NewDatasetService(
	source BarcodeFetcher,
	resolver Resolver,
	store domain.DatasetStore,
	config DatasetServiceConfig,
) *DatasetService {
	defaultCount := config.DefaultCount
	if defaultCount <= 0 {
		defaultCount = DefaultSampleCount
	}

	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	snapshotTTL := config.SnapshotTTL
	if snapshotTTL <= 0 {
		snapshotTTL = time.Hour
	}

	return &DatasetService{
		source:       source,
		resolver:     resolver,
		store:        store,
		defaultCount: defaultCount,
		concurrency:  concurrency,
		snapshotTTL:  snapshotTTL,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// DefaultCount is the dataset size used when a request does not name one
func (s *DatasetService) DefaultCount() int {
	return s.defaultCount
}

// Build resolves every barcode and returns one row per barcode in input order.
// Up to the configured concurrency resolutions run at once; rows are placed by
// index, so completion order never affects the result.
func (s *DatasetService) Build(ctx context.Context, barcodes []string) *domain.Dataset {
	start := s.now()
	rows := make([]domain.Row, len(barcodes))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, barcode := range barcodes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				rows[i] = domain.Row{
					Requested: barcode,
					Product:   domain.ErrorRecord(),
					Err:       fmt.Errorf("%w: %v", domain.ErrResolveFailed, err),
				}
				return nil
			}
			rows[i] = s.resolver.Resolve(ctx, barcode)
			return nil
		})
	}
	// workers never fail; each row carries its own error
	g.Wait()

	dataset := &domain.Dataset{
		CreatedAt: start,
		Rows:      rows,
	}

	log.Printf("[DATASET] Resolved %d products (%d failed) in %s",
		len(rows), dataset.FailedCount(), s.now().Sub(start).Round(time.Millisecond))

	return dataset
}

// Generate samples count barcodes, builds the dataset and stores it as a snapshot.
// A count of zero uses the configured default.
func (s *DatasetService) Generate(ctx context.Context, count int) (*domain.Dataset, error) {
	if count == 0 {
		count = s.defaultCount
	}
	if count < 0 || count > MaxDatasetSize {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", domain.ErrInvalidRequest, MaxDatasetSize)
	}

	barcodes, err := s.source.Fetch(ctx, count)
	if err != nil {
		return nil, err
	}

	dataset := s.Build(ctx, barcodes)
	dataset.ID = s.newID()

	if s.store != nil {
		if err := s.store.Set(ctx, dataset.ID, dataset, s.snapshotTTL); err != nil {
			return nil, fmt.Errorf("failed to store dataset %s: %w", dataset.ID, err)
		}
	}

	log.Printf("[DATASET] Generated dataset %s with %d rows (requested %d)", dataset.ID, len(dataset.Rows), count)
	return dataset, nil
}

// Get returns a stored snapshot
func (s *DatasetService) Get(ctx context.Context, id string) (*domain.Dataset, error) {
	if s.store == nil {
		return nil, domain.ErrDatasetNotFound
	}

	dataset, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.ErrDatasetNotFound
		}
		return nil, err
	}
	if dataset == nil {
		return nil, domain.ErrDatasetNotFound
	}

	return dataset, nil
}
