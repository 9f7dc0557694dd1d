package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"noilens/internal/domain"
)

// ParseError indicates the completion text did not satisfy the JSON
// contract. Parse errors are retryable with an intensified prompt.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("completion violates JSON contract: %v (raw: %s)", e.Err, truncate(e.Raw, 200))
}

func (e *ParseError) Unwrap() error { return e.Err }

// contract is the JSON shape a completion must return.
type contract struct {
	FinancialData    map[string]interface{} `json:"financial_data"`
	ConfidenceScores map[string]float64     `json:"confidence_scores"`
}

// ParseContract pulls the contract object out of completion text. The text
// is scanned for the first '{' and last '}' so surrounding prose or code
// fences don't break decoding, and malformed JSON gets one repair pass
// before the attempt counts as failed.
func ParseContract(raw string) (map[string]interface{}, domain.ConfidenceMap, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return nil, nil, &ParseError{Raw: raw, Err: fmt.Errorf("no JSON object found")}
	}
	candidate := raw[start : end+1]

	var c contract
	if err := json.Unmarshal([]byte(candidate), &c); err != nil {
		repaired, rerr := jsonrepair.RepairJSON(candidate)
		if rerr != nil {
			return nil, nil, &ParseError{Raw: raw, Err: err}
		}
		if err := json.Unmarshal([]byte(repaired), &c); err != nil {
			return nil, nil, &ParseError{Raw: raw, Err: err}
		}
	}

	if c.FinancialData == nil {
		return nil, nil, &ParseError{Raw: raw, Err: fmt.Errorf("missing financial_data object")}
	}
	if c.ConfidenceScores == nil {
		return nil, nil, &ParseError{Raw: raw, Err: fmt.Errorf("missing confidence_scores object")}
	}

	confidence := domain.ConfidenceMap{}
	for k, v := range c.ConfidenceScores {
		confidence[k] = v
	}
	return c.FinancialData, confidence, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
