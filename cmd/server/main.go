package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fooddex/backend/config"
	httpDelivery "github.com/fooddex/backend/internal/delivery/http"
	"github.com/fooddex/backend/internal/infrastructure/cache"
	"github.com/fooddex/backend/internal/infrastructure/openfoodfacts"
	"github.com/fooddex/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting fooddex backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Infrastructure
	datasetStore := cache.NewDatasetStore(0)
	defer datasetStore.Close()
	log.Printf("Snapshot TTL: %s", cfg.Cache.TTL)

	offClient := openfoodfacts.NewClient(openfoodfacts.Options{
		BaseURL:          cfg.OpenFoodFacts.BaseURL,
		UserAgent:        cfg.OpenFoodFacts.UserAgent,
		Timeout:          cfg.OpenFoodFacts.Timeout,
		SearchPerMinute:  cfg.RateLimit.SearchPerMinute,
		ProductPerMinute: cfg.RateLimit.ProductPerMinute,
	})

	if cfg.Server.Environment == "development" {
		offClient.SetDebug(true)
		log.Printf("Open Food Facts client debug mode enabled")
	}
	log.Printf("Open Food Facts API: %s (search %d/min, product %d/min)",
		cfg.OpenFoodFacts.BaseURL, cfg.RateLimit.SearchPerMinute, cfg.RateLimit.ProductPerMinute)

	// Use cases
	source := usecase.NewBarcodeSource(offClient, usecase.BarcodeSourceConfig{
		PageSize: cfg.Sampling.PageSize,
		Category: cfg.Sampling.Category,
	})
	resolver := usecase.NewProductResolver(offClient)
	datasets := usecase.NewDatasetService(source, resolver, datasetStore, usecase.DatasetServiceConfig{
		DefaultCount: cfg.Sampling.Count,
		Concurrency:  cfg.Fetch.Concurrency,
		SnapshotTTL:  cfg.Cache.TTL,
	})

	log.Printf("Sampling: count=%d, page_size=%d, category=%q, concurrency=%d",
		cfg.Sampling.Count, cfg.Sampling.PageSize, cfg.Sampling.Category, cfg.Fetch.Concurrency)

	handler := httpDelivery.NewHandler(source, resolver, datasets)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
