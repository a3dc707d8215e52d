package openfoodfacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fooddex/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productBody = `{
	"code": "111",
	"status": "success",
	"product": {
		"product_name": "Oat Biscuits",
		"brands": "Crunchy Co",
		"nutriscore_grade": "a",
		"nova_group": 1,
		"nova_groups_tags": ["en:1-unprocessed-or-minimally-processed-foods"],
		"nutriments": {"energy-kcal_100g": 250},
		"nutrient_levels": {"fat": "low", "salt": "moderate", "saturated-fat": "low", "sugars": "high"},
		"ingredients_n": 4,
		"ingredients_text_en": "oats, sugar, butter, salt",
		"categories": "Snacks, Biscuits",
		"image_front_small_url": "https://images.example.com/111/front.200.jpg"
	}
}`

func newTestClient(baseURL string) *Client {
	return NewClient(Options{BaseURL: baseURL})
}

func TestNewClient(t *testing.T) {
	client := NewClient(Options{BaseURL: "https://off.example.com/"})

	assert.NotNil(t, client)
	assert.Equal(t, "https://off.example.com", client.baseURL)
	assert.Equal(t, defaultUserAgent, client.userAgent)
	assert.Equal(t, defaultTimeout, client.httpClient.Timeout)
	assert.NotNil(t, client.searchLimiter)
	assert.NotNil(t, client.productLimiter)
	assert.Equal(t, defaultSearchPerMinute, client.searchLimiter.Burst())
	assert.Equal(t, defaultProductPerMinute, client.productLimiter.Burst())
	assert.False(t, client.debug)
}

func TestNewClient_CustomOptions(t *testing.T) {
	client := NewClient(Options{
		BaseURL:          "https://off.example.com",
		UserAgent:        "custom/2.0",
		Timeout:          5 * time.Second,
		SearchPerMinute:  3,
		ProductPerMinute: 30,
	})

	assert.Equal(t, "custom/2.0", client.userAgent)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Equal(t, 3, client.searchLimiter.Burst())
	assert.Equal(t, 30, client.productLimiter.Burst())
}

func TestSetDebug(t *testing.T) {
	client := newTestClient("https://off.example.com")

	assert.False(t, client.debug)

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

func TestSearchBarcodes_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cgi/search.pl", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "process", q.Get("action"))
		assert.Equal(t, "categories", q.Get("tagtype_0"))
		assert.Equal(t, "contains", q.Get("tag_contains_0"))
		assert.Equal(t, "1000", q.Get("page_size"))
		assert.Equal(t, "true", q.Get("json"))
		assert.False(t, q.Has("tag_0"))
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count": 3, "products": [{"code": "111"}, {"product_name": "no code"}, {"code": "333"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	barcodes, err := client.SearchBarcodes(context.Background(), domain.SearchParams{PageSize: 1000})

	require.NoError(t, err)
	assert.Equal(t, []string{"111", "333"}, barcodes)
}

func TestSearchBarcodes_CategoryAndDefaultPageSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "snacks", r.URL.Query().Get("tag_0"))
		assert.Equal(t, "1000", r.URL.Query().Get("page_size"))
		w.Write([]byte(`{"products": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	barcodes, err := client.SearchBarcodes(context.Background(), domain.SearchParams{Category: "snacks"})

	require.NoError(t, err)
	assert.Empty(t, barcodes)
}

func TestSearchBarcodes_NumericCodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products": [{"code": 3017620422003}, {"code": null}, {"code": ""}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	barcodes, err := client.SearchBarcodes(context.Background(), domain.SearchParams{PageSize: 10})

	require.NoError(t, err)
	assert.Equal(t, []string{"3017620422003"}, barcodes)
}

func TestSearchBarcodes_ServerError_NoRetry(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	barcodes, err := client.SearchBarcodes(context.Background(), domain.SearchParams{})

	assert.Nil(t, barcodes)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestSearchBarcodes_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := newTestClient(baseURL)

	barcodes, err := client.SearchBarcodes(context.Background(), domain.SearchParams{})

	assert.Nil(t, barcodes)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestSearchBarcodes_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("invalid json"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	barcodes, err := client.SearchBarcodes(context.Background(), domain.SearchParams{})

	assert.Nil(t, barcodes)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestGetProduct_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/product/111/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(productBody))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	product, err := client.GetProduct(context.Background(), "111")

	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "111", product.Barcode)
	require.NotNil(t, product.NutriScore)
	assert.Equal(t, "a", *product.NutriScore)
	require.NotNil(t, product.Nova)
	assert.Equal(t, 1.0, *product.Nova)
	require.NotNil(t, product.Energy)
	assert.Equal(t, 250.0, *product.Energy)
	require.NotNil(t, product.Sugars)
	assert.Equal(t, "high", *product.Sugars)
	assert.Equal(t, []string{"en:1-unprocessed-or-minimally-processed-foods"}, product.NovaTags)
	assert.Len(t, product.Values(), len(domain.Columns))
}

func TestGetProduct_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code": "999", "status": "failure"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	product, err := client.GetProduct(context.Background(), "999")

	assert.Nil(t, product)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, err, domain.ErrResolveFailed)
}

func TestGetProduct_ServerError_NoRetry(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	product, err := client.GetProduct(context.Background(), "111")

	assert.Nil(t, product)
	assert.ErrorIs(t, err, domain.ErrResolveFailed)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestGetProduct_MissingCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "success", "product": {"product_name": "Nameless"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	product, err := client.GetProduct(context.Background(), "111")

	assert.Nil(t, product)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestGetProduct_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not valid json"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	product, err := client.GetProduct(context.Background(), "111")

	assert.Nil(t, product)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestGetProduct_EmptyBarcode(t *testing.T) {
	client := newTestClient("https://off.example.com")

	product, err := client.GetProduct(context.Background(), "  ")

	assert.Nil(t, product)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestGetProduct_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	product, err := client.GetProduct(ctx, "111")

	assert.Nil(t, product)
	assert.ErrorIs(t, err, domain.ErrResolveFailed)
}

func TestGetProduct_RequestCreationError(t *testing.T) {
	client := newTestClient("://invalid-url")

	product, err := client.GetProduct(context.Background(), "111")

	assert.Nil(t, product)
	assert.ErrorIs(t, err, domain.ErrResolveFailed)
}

func TestDebugLog(t *testing.T) {
	client := newTestClient("https://off.example.com")

	// Should not panic either way
	client.debug = false
	client.debugLog("test message %s", "arg")

	client.debug = true
	client.debugLog("test message %s", "arg")
}

func TestReadLimitedBody(t *testing.T) {
	t.Run("reads within limit", func(t *testing.T) {
		body, err := readLimitedBody(strings.NewReader("short content"), 1000)
		require.NoError(t, err)
		assert.Equal(t, "short content", string(body))
	})

	t.Run("truncates beyond limit", func(t *testing.T) {
		body, err := readLimitedBody(strings.NewReader(strings.Repeat("0123456789", 100)), 100)
		require.NoError(t, err)
		assert.Len(t, body, 100)
	})
}
