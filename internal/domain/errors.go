package domain

import "errors"

var (
	// ErrSourceUnavailable is returned when the search endpoint cannot be queried
	ErrSourceUnavailable = errors.New("barcode source unavailable")

	// ErrResolveFailed is returned when a product request fails at the transport or HTTP level
	ErrResolveFailed = errors.New("product resolution failed")

	// ErrProductNotFound is returned when Open Food Facts has no product for a barcode
	ErrProductNotFound = errors.New("product not found in Open Food Facts")

	// ErrMalformedResponse is returned when a successful response cannot be used
	ErrMalformedResponse = errors.New("malformed Open Food Facts response")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrDatasetNotFound is returned when a dataset snapshot is unknown or expired
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
