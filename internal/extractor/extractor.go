// Package extractor implements the extraction pipeline: prompt construction,
// completion calls with retry, result validation, and the orchestrating
// facade that turns raw document bytes into a canonical financial record.
package extractor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"noilens/internal/completion"
	"noilens/internal/config"
	"noilens/internal/domain"
	"noilens/internal/reader"
	"noilens/internal/structure"
)

// Engine sequences the full pipeline for one document and is safe for
// concurrent use across documents. It holds no cross-document state.
type Engine struct {
	reader      *reader.Reader
	normalizer  *structure.Normalizer
	content     *structure.ContentValidator
	retry       *RetryOrchestrator
	heuristic   *HeuristicExtractor
	validator   *ResultValidator
	concurrency int
}

// NewEngine wires the pipeline. A nil completion client selects the
// heuristic extraction strategy instead of the completion loop.
func NewEngine(client completion.Client, cfg *config.ExtractorConfig) *Engine {
	detector := structure.NewDetector()
	e := &Engine{
		reader:      reader.New(),
		normalizer:  structure.NewNormalizer(detector),
		content:     structure.NewContentValidatorWithDensity(cfg.ZeroValueMinimumDensity),
		heuristic:   NewHeuristicExtractor(),
		validator:   NewResultValidator(),
		concurrency: cfg.Concurrency,
	}
	if e.concurrency <= 0 {
		e.concurrency = 4
	}
	if client != nil {
		prompts := NewPromptBuilder(cfg.PromptBudget)
		e.retry = NewRetryOrchestrator(client, prompts, cfg.MaxAttempts, cfg.RetryBaseDelay)
	}
	return e
}

// Extract runs the pipeline for one document. Only unreadable input returns
// an error; every other failure mode comes back as a valid ExtractionResult
// with degraded confidence and an explanatory audit trail.
func (e *Engine) Extract(ctx context.Context, data []byte, fileName string, hint domain.DocumentType) (*domain.ExtractionResult, error) {
	start := time.Now()
	docType := ResolveDocumentType(hint, fileName)

	content, err := e.reader.Read(data, fileName)
	if err != nil {
		return nil, err
	}

	result := &domain.ExtractionResult{
		ID:           uuid.NewString(),
		DocumentType: docType,
		Record:       domain.NewFinancialRecord(fileName, docType),
	}
	result.Record.ExtractionStatus = domain.StatusCompleted
	audit := func(format string, args ...interface{}) {
		result.AuditTrail = append(result.AuditTrail, fmt.Sprintf(format, args...))
	}
	audit("read %d sections from %s (%s)", len(content.Sections), fileName, content.FileType)

	structured := e.normalizer.Normalize(content)
	audit("normalized as %s (%d rows)", structured.StructureClass, structured.RowCount)

	if !e.content.HasFinancialData(content) {
		audit("content check rejected document as template without data")
		result.Record.ExtractionStatus = domain.StatusNoFinancialData
		result.Record.RequiresManualEntry = true
		result.Record.ErrorMessage = "document contains no extractable financial data; it looks like an empty template"
		result.Level = domain.ConfidenceUncertain
		result.Method = "template_detection"
		result.Elapsed = time.Since(start)
		log.Printf("extractor: %s rejected as template", fileName)
		return result, nil
	}

	var (
		fields     map[string]interface{}
		confidence domain.ConfidenceMap
	)
	if e.retry != nil {
		result.Method = MethodCompletion
		var attempts int
		fields, confidence, attempts, err = e.retry.Extract(ctx, structured.Text, docType)
		audit("completion extraction used %d attempt(s)", attempts)
		if err != nil {
			audit("extraction exhausted all attempts: %v", err)
			result.Record.ExtractionStatus = domain.StatusFailed
			result.Record.RequiresManualEntry = true
			result.Record.ErrorMessage = err.Error()
			result.Level = domain.ConfidenceUncertain
			result.Elapsed = time.Since(start)
			return result, nil
		}
	} else {
		result.Method = MethodHeuristic
		fields, confidence = e.heuristic.Extract(structured.Text)
		audit("heuristic extraction matched %d field(s)", len(fields))
		if len(fields) == 0 {
			result.Record.ExtractionStatus = domain.StatusFailed
			result.Record.RequiresManualEntry = true
			result.Record.ErrorMessage = "no labeled financial values found in document text"
			result.Level = domain.ConfidenceUncertain
			result.Elapsed = time.Since(start)
			return result, nil
		}
	}

	result.AuditTrail = append(result.AuditTrail, e.validator.Validate(&result.Record, fields, confidence)...)
	result.Confidence = confidence
	result.Level = confidence.Level()
	result.Elapsed = time.Since(start)
	log.Printf("extractor: %s completed via %s with %s confidence in %s",
		fileName, result.Method, result.Level, result.Elapsed.Round(time.Millisecond))
	return result, nil
}

// ExtractLegacy is the narrowed view for callers that only need the numbers.
func (e *Engine) ExtractLegacy(ctx context.Context, data []byte, fileName string, hint domain.DocumentType) (domain.FinancialRecord, error) {
	result, err := e.Extract(ctx, data, fileName, hint)
	if err != nil {
		return domain.FinancialRecord{}, err
	}
	return result.Record, nil
}

// ExtractAll processes documents concurrently and returns results in input
// order. Unreadable documents become failed records instead of aborting the
// whole batch.
func (e *Engine) ExtractAll(ctx context.Context, docs []domain.RawDocument) []*domain.ExtractionResult {
	results := make([]*domain.ExtractionResult, len(docs))
	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup
	for i := range docs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			doc := docs[i]
			result, err := e.Extract(ctx, doc.Data, doc.FileName, doc.TypeHint)
			if err != nil {
				record := domain.NewFinancialRecord(doc.FileName, ResolveDocumentType(doc.TypeHint, doc.FileName))
				record.ExtractionStatus = domain.StatusFailed
				record.RequiresManualEntry = true
				record.ErrorMessage = err.Error()
				result = &domain.ExtractionResult{
					ID:           uuid.NewString(),
					Record:       record,
					Level:        domain.ConfidenceUncertain,
					DocumentType: record.DocumentType,
					AuditTrail:   []string{fmt.Sprintf("unreadable document: %v", err)},
				}
			}
			results[i] = result
		}(i)
	}
	wg.Wait()
	return results
}
