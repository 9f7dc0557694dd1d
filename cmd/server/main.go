package main

import (
	"fmt"
	"log"

	"noilens/internal/completion"
	"noilens/internal/completion/openai"
	"noilens/internal/config"
	"noilens/internal/extractor"
	"noilens/internal/handler"
	"noilens/internal/router"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Without an API key the engine falls back to heuristic extraction.
	var client completion.Client
	if cfg.Completion.APIKey != "" {
		client = openai.NewClient(&cfg.Completion)
	} else {
		log.Printf("server: no completion API key configured, using heuristic extraction")
	}

	engine := extractor.NewEngine(client, &cfg.Extractor)

	extractionH := handler.NewExtractionHandler(engine, &cfg.Upload)
	healthH := handler.NewHealthHandler()

	r := router.Setup(extractionH, healthH, &cfg.CORS)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
