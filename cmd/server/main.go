package main

import (
	"fmt"
	"log"
	"os"

	"github.com/assortcheck/backend/config"
	httpDelivery "github.com/assortcheck/backend/internal/delivery/http"
	"github.com/assortcheck/backend/internal/infrastructure/cache"
	"github.com/assortcheck/backend/internal/infrastructure/searchapi"
	"github.com/assortcheck/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting AssortCheck Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Search API host template: %s", cfg.SearchAPI.HostTemplate)
	log.Printf("Search API timeout: %s", cfg.SearchAPI.Timeout)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	searchClient := searchapi.NewClient(cfg.SearchAPI.HostTemplate, cfg.SearchAPI.Timeout)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		searchClient.SetDebug(true)
		log.Printf("Search client debug mode enabled")
	}

	// Initialize usecase layer
	analysisService := usecase.NewAnalysisService(
		memoryCache,
		searchClient,
		usecase.AnalysisServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			MaxResultSize:      cfg.Analysis.MaxResultSize,
			EnableDebugLogging: cfg.Analysis.EnableDebugLogging,
		},
	)

	log.Printf("Analysis: max result size=%d, debug=%v",
		cfg.Analysis.MaxResultSize,
		cfg.Analysis.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(analysisService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
