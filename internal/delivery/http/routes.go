package http

import (
	"github.com/fooddex/backend/config"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.GET("/barcodes", handler.ListBarcodes)
		v1.GET("/products/:barcode", handler.GetProduct)

		datasets := v1.Group("/datasets")
		{
			datasets.POST("", handler.CreateDataset)
			datasets.GET("/:id", handler.GetDataset)
			datasets.GET("/:id/table", handler.GetDatasetTable)
			datasets.GET("/:id/report", handler.GetDatasetReport)
			datasets.GET("/:id/charts/:kind", handler.GetDatasetChart)
		}
	}

	return router
}
