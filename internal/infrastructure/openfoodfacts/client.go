package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fooddex/backend/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout          = 30 * time.Second
	defaultUserAgent        = "fooddex/1.0"
	defaultSearchPerMinute  = 10
	defaultProductPerMinute = 100

	maxSearchBodyBytes  = 32 << 20
	maxProductBodyBytes = 8 << 20
	maxLoggedBodyBytes  = 512
)

// Options configures a Client
type Options struct {
	BaseURL          string
	UserAgent        string
	Timeout          time.Duration
	SearchPerMinute  int
	ProductPerMinute int
}

// Client handles communication with the Open Food Facts API
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	searchLimiter  *rate.Limiter
	productLimiter *rate.Limiter
	debug          bool
}

// NewClient creates a new Open Food Facts API client
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	// Open Food Facts publishes per-minute limits: search is far stricter than product reads
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		userAgent:      userAgent,
		searchLimiter:  perMinuteLimiter(opts.SearchPerMinute, defaultSearchPerMinute),
		productLimiter: perMinuteLimiter(opts.ProductPerMinute, defaultProductPerMinute),
	}
}

func perMinuteLimiter(n, fallback int) *rate.Limiter {
	if n <= 0 {
		n = fallback
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
}

// SetDebug toggles verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(format string, args ...any) {
	if c.debug {
		log.Printf("[OFF] "+format, args...)
	}
}

// doRequest executes an HTTP GET request with proper headers.
// Transport failures are wrapped with the given sentinel.
func (c *Client) doRequest(ctx context.Context, reqURL string, failure error) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", failure, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.debugLog("GET %s", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", failure, err)
	}

	return resp, nil
}

// SearchBarcodes queries the search endpoint and returns the codes of the
// returned products in response order. Entries without a code are skipped.
func (c *Client) SearchBarcodes(ctx context.Context, params domain.SearchParams) ([]string, error) {
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}

	query := url.Values{}
	query.Set("action", "process")
	query.Set("tagtype_0", "categories")
	query.Set("tag_contains_0", "contains")
	if params.Category != "" {
		query.Set("tag_0", params.Category)
	}
	query.Set("page_size", strconv.Itoa(pageSize))
	query.Set("json", "true")
	query.Set("fields", "code")

	reqURL := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, query.Encode())

	if err := c.searchLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter error: %v", domain.ErrSourceUnavailable, err)
	}

	resp, err := c.doRequest(ctx, reqURL, domain.ErrSourceUnavailable)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := readLimitedBody(resp.Body, maxLoggedBodyBytes)
		c.debugLog("search failed - Status: %d, Body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: status %d", domain.ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := readLimitedBody(resp.Body, maxSearchBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrSourceUnavailable, err)
	}

	var searchResp domain.OFFSearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrMalformedResponse, err)
	}

	barcodes := ExtractBarcodes(&searchResp)
	log.Printf("[OFF] Search returned %d products, %d with a barcode", len(searchResp.Products), len(barcodes))
	return barcodes, nil
}

// GetProduct retrieves and normalizes a single product by barcode
func (c *Client) GetProduct(ctx context.Context, barcode string) (*domain.Product, error) {
	if strings.TrimSpace(barcode) == "" {
		return nil, domain.ErrInvalidRequest
	}

	reqURL := fmt.Sprintf("%s/api/v3/product/%s/", c.baseURL, url.PathEscape(barcode))

	if err := c.productLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter error: %v", domain.ErrResolveFailed, err)
	}

	resp, err := c.doRequest(ctx, reqURL, domain.ErrResolveFailed)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrResolveFailed, domain.ErrProductNotFound, barcode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := readLimitedBody(resp.Body, maxLoggedBodyBytes)
		c.debugLog("product %s failed - Status: %d, Body: %s", barcode, resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: status %d", domain.ErrResolveFailed, resp.StatusCode)
	}

	body, err := readLimitedBody(resp.Body, maxProductBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrResolveFailed, err)
	}

	var productResp domain.OFFProductResponse
	if err := json.Unmarshal(body, &productResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrMalformedResponse, err)
	}

	product, err := MapToProduct(&productResp)
	if err != nil {
		return nil, fmt.Errorf("barcode %s: %w", barcode, err)
	}
	return product, nil
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return body, nil
}
