package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/fooddex/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func makePool(n int) []string {
	pool := make([]string, n)
	for i := range pool {
		pool[i] = fmt.Sprintf("%013d", i+1)
	}
	return pool
}

func TestNewBarcodeSource_Defaults(t *testing.T) {
	source := NewBarcodeSource(NewMockOFFClient(), BarcodeSourceConfig{})

	assert.Equal(t, defaultPageSize, source.pageSize)
	assert.NotNil(t, source.rng)
}

func TestBarcodeSource_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns count distinct barcodes from the pool", func(t *testing.T) {
		pool := makePool(50)
		inPool := make(map[string]bool, len(pool))
		for _, code := range pool {
			inPool[code] = true
		}

		for seed := uint64(0); seed < 20; seed++ {
			client := NewMockOFFClient()
			client.searchResult = pool
			source := NewBarcodeSource(client, BarcodeSourceConfig{Rand: seeded(seed)})

			for _, count := range []int{1, 7, 50} {
				got, err := source.Fetch(ctx, count)
				require.NoError(t, err)
				require.Len(t, got, count)

				seen := make(map[string]bool, count)
				for _, code := range got {
					assert.True(t, inPool[code], "barcode %s not in pool", code)
					assert.False(t, seen[code], "barcode %s returned twice", code)
					seen[code] = true
				}
			}
		}
	})

	t.Run("returns the whole pool when it is too small", func(t *testing.T) {
		client := NewMockOFFClient()
		client.searchResult = []string{"111", "222", "333"}
		source := NewBarcodeSource(client, BarcodeSourceConfig{Rand: seeded(1)})

		got, err := source.Fetch(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, []string{"111", "222", "333"}, got)
		assert.Less(t, len(got), 5)
	})

	t.Run("samples a 2-permutation of a 3-element pool", func(t *testing.T) {
		client := NewMockOFFClient()
		client.searchResult = []string{"111", "222", "333"}
		source := NewBarcodeSource(client, BarcodeSourceConfig{})

		got, err := source.Fetch(ctx, 2)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.NotEqual(t, got[0], got[1])
		assert.Subset(t, []string{"111", "222", "333"}, got)
	})

	t.Run("same seed gives the same sample", func(t *testing.T) {
		client := NewMockOFFClient()
		client.searchResult = makePool(100)

		first, err := NewBarcodeSource(client, BarcodeSourceConfig{Rand: seeded(42)}).Fetch(ctx, 10)
		require.NoError(t, err)
		second, err := NewBarcodeSource(client, BarcodeSourceConfig{Rand: seeded(42)}).Fetch(ctx, 10)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("duplicate codes never produce a repeated barcode", func(t *testing.T) {
		client := NewMockOFFClient()
		client.searchResult = []string{"111", "111", "222", "222"}
		source := NewBarcodeSource(client, BarcodeSourceConfig{Rand: seeded(3)})

		got, err := source.Fetch(ctx, 2)

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"111", "222"}, got)
	})

	t.Run("source failure yields an empty list", func(t *testing.T) {
		client := NewMockOFFClient()
		client.searchError = fmt.Errorf("%w: status 503", domain.ErrSourceUnavailable)
		source := NewBarcodeSource(client, BarcodeSourceConfig{})

		got, err := source.Fetch(ctx, 10)

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty pool", func(t *testing.T) {
		client := NewMockOFFClient()
		source := NewBarcodeSource(client, BarcodeSourceConfig{})

		got, err := source.Fetch(ctx, 3)

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("rejects non-positive count", func(t *testing.T) {
		source := NewBarcodeSource(NewMockOFFClient(), BarcodeSourceConfig{})

		_, err := source.Fetch(ctx, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("forwards page size and category", func(t *testing.T) {
		client := NewMockOFFClient()
		source := NewBarcodeSource(client, BarcodeSourceConfig{PageSize: 250, Category: "snacks"})

		_, err := source.Fetch(ctx, 1)

		require.NoError(t, err)
		require.Len(t, client.searchParams, 1)
		assert.Equal(t, domain.SearchParams{PageSize: 250, Category: "snacks"}, client.searchParams[0])
	})
}

func TestUniqueBarcodes(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, uniqueBarcodes([]string{"b", "a", "b", "c", "a"}))
	assert.Empty(t, uniqueBarcodes(nil))
}
