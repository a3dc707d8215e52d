package http

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/fooddex/backend/internal/delivery/charts"
	"github.com/fooddex/backend/internal/delivery/report"
	"github.com/fooddex/backend/internal/domain"
	"github.com/fooddex/backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeSVG  = "image/svg+xml"
)

// DatasetProvider builds and looks up dataset snapshots
type DatasetProvider interface {
	DefaultCount() int
	Generate(ctx context.Context, count int) (*domain.Dataset, error)
	Get(ctx context.Context, id string) (*domain.Dataset, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	source   usecase.BarcodeFetcher
	resolver usecase.Resolver
	datasets DatasetProvider
}

// NewHandler creates a new HTTP handler. A nil dependency makes its
// endpoints answer 503.
func NewHandler(source usecase.BarcodeFetcher, resolver usecase.Resolver, datasets DatasetProvider) *Handler {
	return &Handler{
		source:   source,
		resolver: resolver,
		datasets: datasets,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "fooddex-backend",
		"version": "1.0.0",
	})
}

// ProductResponse is the JSON form of one resolved row
type ProductResponse struct {
	Requested string         `json:"requested"`
	Product   domain.Product `json:"product"`
	Error     string         `json:"error,omitempty"`
}

// DatasetResponse is the JSON form of a dataset snapshot
type DatasetResponse struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Count     int               `json:"count"`
	Failed    int               `json:"failed"`
	Columns   []string          `json:"columns"`
	Rows      []ProductResponse `json:"rows"`
}

// CreateDatasetRequest is the body of POST /datasets. A zero count means the
// configured default.
type CreateDatasetRequest struct {
	Count int `json:"count"`
}

func toProductResponse(row domain.Row) ProductResponse {
	resp := ProductResponse{Requested: row.Requested, Product: row.Product}
	if row.Err != nil {
		resp.Error = row.Err.Error()
	}
	return resp
}

func toDatasetResponse(d *domain.Dataset) DatasetResponse {
	rows := make([]ProductResponse, len(d.Rows))
	for i, row := range d.Rows {
		rows[i] = toProductResponse(row)
	}
	return DatasetResponse{
		ID:        d.ID,
		CreatedAt: d.CreatedAt,
		Count:     len(d.Rows),
		Failed:    d.FailedCount(),
		Columns:   domain.Columns,
		Rows:      rows,
	}
}

// ListBarcodes samples barcodes from the search endpoint
func (h *Handler) ListBarcodes(c *gin.Context) {
	if h.source == nil {
		notConfigured(c, "barcode source")
		return
	}

	count := usecase.DefaultSampleCount
	if h.datasets != nil {
		count = h.datasets.DefaultCount()
	}
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be an integer"})
			return
		}
		count = n
	}

	barcodes, err := h.source.Fetch(c.Request.Context(), count)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(barcodes),
		"barcodes": barcodes,
	})
}

// GetProduct resolves one barcode into a product record
func (h *Handler) GetProduct(c *gin.Context) {
	if h.resolver == nil {
		notConfigured(c, "product resolver")
		return
	}

	row := h.resolver.Resolve(c.Request.Context(), c.Param("barcode"))
	if row.Failed() {
		c.JSON(statusFor(row.Err), toProductResponse(row))
		return
	}

	c.JSON(http.StatusOK, toProductResponse(row))
}

// CreateDataset samples barcodes, resolves them and stores the snapshot
func (h *Handler) CreateDataset(c *gin.Context) {
	if h.datasets == nil {
		notConfigured(c, "dataset service")
		return
	}

	var req CreateDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	dataset, err := h.datasets.Generate(c.Request.Context(), req.Count)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDatasetResponse(dataset))
}

// GetDataset returns a stored snapshot as JSON
func (h *Handler) GetDataset(c *gin.Context) {
	dataset, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toDatasetResponse(dataset))
}

// GetDatasetTable returns the highlighted HTML table of a snapshot
func (h *Handler) GetDatasetTable(c *gin.Context) {
	dataset, ok := h.lookup(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.RenderHTML(&buf, report.Highlight(report.ToTable(dataset))); err != nil {
		log.Printf("[HTTP] Failed to render table for %s: %v", dataset.ID, err)
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, contentTypeHTML, buf.Bytes())
}

// GetDatasetReport returns a standalone HTML page with the table and the
// default charts
func (h *Handler) GetDatasetReport(c *gin.Context) {
	dataset, ok := h.lookup(c)
	if !ok {
		return
	}

	table := report.ToTable(dataset)
	defaults, err := charts.Defaults(table)
	if err != nil {
		log.Printf("[HTTP] Failed to build charts for %s: %v", dataset.ID, err)
		writeError(c, err)
		return
	}

	figures := make([]report.Figure, 0, len(defaults))
	for _, chart := range defaults {
		svg, err := chart.InlineSVG()
		if err != nil {
			log.Printf("[HTTP] Failed to render chart %q for %s: %v", chart.Title, dataset.ID, err)
			writeError(c, err)
			return
		}
		figures = append(figures, report.Figure{Title: chart.Title, SVG: template.HTML(svg)})
	}

	var buf bytes.Buffer
	err = report.RenderPage(&buf, report.Page{
		Title:     "fooddex",
		DatasetID: dataset.ID,
		CreatedAt: dataset.CreatedAt,
		Failed:    dataset.FailedCount(),
		Table:     report.Highlight(table),
		Figures:   figures,
	})
	if err != nil {
		log.Printf("[HTTP] Failed to render report for %s: %v", dataset.ID, err)
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, contentTypeHTML, buf.Bytes())
}

// GetDatasetChart returns one chart of a snapshot as SVG
func (h *Handler) GetDatasetChart(c *gin.Context) {
	dataset, ok := h.lookup(c)
	if !ok {
		return
	}

	chart, err := charts.ByKind(report.ToTable(dataset), c.Param("kind"))
	if err != nil {
		if errors.Is(err, charts.ErrUnknownChart) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.WriteSVG(&buf); err != nil {
		log.Printf("[HTTP] Failed to render chart %q for %s: %v", chart.Title, dataset.ID, err)
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, contentTypeSVG, buf.Bytes())
}

func (h *Handler) lookup(c *gin.Context) (*domain.Dataset, bool) {
	if h.datasets == nil {
		notConfigured(c, "dataset service")
		return nil, false
	}

	dataset, err := h.datasets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return dataset, true
}

func notConfigured(c *gin.Context, what string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": what + " not configured"})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDatasetNotFound), errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrSourceUnavailable),
		errors.Is(err, domain.ErrResolveFailed),
		errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}
