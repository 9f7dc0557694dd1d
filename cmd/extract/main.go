// Command extract runs the extraction pipeline against local files and
// prints the results as JSON or CSV.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"noilens/internal/completion"
	"noilens/internal/completion/openai"
	"noilens/internal/config"
	"noilens/internal/domain"
	"noilens/internal/export"
	"noilens/internal/extractor"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	docType := flag.String("type", "", "document type hint (current_month_actuals, prior_month_actuals, current_month_budget, prior_year_actuals)")
	csvOut := flag.String("csv", "", "write results as CSV to this path instead of JSON on stdout")
	heuristic := flag.Bool("heuristic", false, "force heuristic extraction even when an API key is configured")
	flag.Parse()

	if flag.NArg() == 0 {
		return fmt.Errorf("usage: extract [flags] <file>...")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var client completion.Client
	if cfg.Completion.APIKey != "" && !*heuristic {
		client = openai.NewClient(&cfg.Completion)
	}
	engine := extractor.NewEngine(client, &cfg.Extractor)

	docs := make([]domain.RawDocument, 0, flag.NArg())
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		docs = append(docs, domain.RawDocument{
			FileName: filepath.Base(path),
			Data:     data,
			TypeHint: domain.DocumentType(*docType),
		})
	}

	results := engine.ExtractAll(context.Background(), docs)

	if *csvOut != "" {
		return writeCSV(*csvOut, results)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func writeCSV(path string, results []*domain.ExtractionResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(export.BOM); err != nil {
		return err
	}
	w := export.NewWriter(f)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteResults(results); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
