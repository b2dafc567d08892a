package main

import (
	"fmt"
	"log"
	"os"

	"github.com/SquaredPiano/emissionary/config"
	httpDelivery "github.com/SquaredPiano/emissionary/internal/delivery/http"
	"github.com/SquaredPiano/emissionary/internal/domain"
	"github.com/SquaredPiano/emissionary/internal/infrastructure/dictionary"
	"github.com/SquaredPiano/emissionary/internal/infrastructure/groq"
	"github.com/SquaredPiano/emissionary/internal/infrastructure/resultsink"
	"github.com/SquaredPiano/emissionary/internal/infrastructure/unknownlog"
	"github.com/SquaredPiano/emissionary/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Emissionary Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	dict, err := loadDictionary(cfg)
	if err != nil {
		log.Fatalf("Failed to load food dictionary: %v", err)
	}
	stats := dict.Stats()
	log.Printf("Dictionary: %d items across %d categories", stats.TotalItems, stats.Categories)

	var classifier domain.LineClassifier
	if cfg.Groq.Enabled {
		groqClient := groq.NewClient(cfg.Groq.APIKey, cfg.Groq.BaseURL, cfg.Groq.Model, cfg.Groq.Timeout)
		if cfg.Server.Environment == "development" {
			groqClient.SetDebug(true)
			log.Printf("Groq client debug mode enabled")
		}
		log.Printf("Groq classifier configured: %s (model: %s)", cfg.Groq.BaseURL, cfg.Groq.Model)
		classifier = groqClient
	} else {
		log.Printf("WARNING: Groq classifier disabled - unmatched items will be reported as unknown")
	}

	unknownLog := unknownlog.NewFileLog(cfg.Pipeline.UnknownLogPath)
	sink := resultsink.NewMemorySink()

	// Initialize usecase layer
	pipeline := usecase.NewPipeline(
		dict,
		classifier,
		unknownLog,
		usecase.PipelineConfig{
			MaxItemPrice:       cfg.Pipeline.MaxItemPrice,
			EmissionsCap:       cfg.Pipeline.EmissionsCap,
			SimilarityFloor:    cfg.Resolver.SimilarityFloor,
			EnableDebugLogging: cfg.Resolver.EnableDebugLogging,
		},
	)

	log.Printf("Pipeline: price_ceiling=%.2f, emissions_cap=%.1f, similarity_floor=%.2f, debug=%v",
		cfg.Pipeline.MaxItemPrice,
		cfg.Pipeline.EmissionsCap,
		cfg.Resolver.SimilarityFloor,
		cfg.Resolver.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(pipeline, dict, sink)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// loadDictionary builds the food dictionary, merging custom CSV entries when configured
func loadDictionary(cfg *config.Config) (*dictionary.Dictionary, error) {
	if cfg.Dictionary.CSVPath != "" {
		log.Printf("Merging dictionary entries from %s", cfg.Dictionary.CSVPath)
		return dictionary.NewFromCSV(cfg.Dictionary.CSVPath)
	}
	return dictionary.New(), nil
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
