package structure

import (
	"log"
	"math"
	"strings"

	"noilens/internal/domain"
)

// ContentValidator decides whether a document carries real financial data or
// is an empty template not worth an extraction call.
type ContentValidator struct {
	// MinimumDensity is the meaningful-numeric fraction below which sparse
	// documents are rejected.
	MinimumDensity float64
}

const defaultMinimumDensity = 0.01

// NewContentValidator returns a validator with the default density floor.
func NewContentValidator() *ContentValidator {
	return &ContentValidator{MinimumDensity: defaultMinimumDensity}
}

// NewContentValidatorWithDensity returns a validator with a configured
// density floor. Zero or negative values select the default.
func NewContentValidatorWithDensity(density float64) *ContentValidator {
	if density <= 0 {
		density = defaultMinimumDensity
	}
	return &ContentValidator{MinimumDensity: density}
}

// HasFinancialData scans rows and text for meaningful numeric values and
// financial vocabulary. Any internal panic during the scan fails open: a
// potentially valid document is always worth one extraction attempt.
func (v *ContentValidator) HasFinancialData(content *domain.PreprocessedContent) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("content: validation scan panicked, failing open: %v", r)
			ok = true
		}
	}()

	meaningful, indicators, total := 0, 0, 0
	for i := range content.Sections {
		section := &content.Sections[i]
		m, ind, t := scanSection(section)
		meaningful += m
		indicators += ind
		total += t
	}
	if len(content.Sections) == 0 || !anyRows(content) {
		m, t := scanText(content.Text)
		meaningful += m
		total += t
	}

	if meaningful >= 3 || indicators >= 5 {
		return true
	}
	return total > 0 && float64(meaningful)/float64(total) >= v.MinimumDensity
}

func anyRows(content *domain.PreprocessedContent) bool {
	for i := range content.Sections {
		if content.Sections[i].HasRows() {
			return true
		}
	}
	return false
}

// scanSection counts meaningful numerics, vocabulary hits, and total entries
// in one section. A numeric is meaningful when non-zero with absolute value
// of at least 1, which excludes placeholder zeros and ratio noise.
func scanSection(section *domain.Section) (meaningful, indicators, total int) {
	for _, h := range section.Headers {
		if domain.HasFinancialTerm(h) {
			indicators++
		}
	}
	for _, row := range section.Rows {
		for _, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			total++
			if v, ok := domain.ParseAmount(cell); ok {
				if v != 0 && math.Abs(v) >= 1 {
					meaningful++
				}
			} else if domain.HasFinancialTerm(cell) {
				indicators++
			}
		}
	}
	if !section.HasRows() {
		m, t := scanText(section.Text)
		meaningful += m
		total += t
		for _, tag := range section.Indicators {
			if strings.HasPrefix(tag, "financial_keyword:") {
				indicators++
			}
		}
	}
	return meaningful, indicators, total
}

func scanText(text string) (meaningful, total int) {
	for _, token := range strings.Fields(text) {
		total++
		if v, ok := domain.ParseAmount(token); ok && v != 0 && math.Abs(v) >= 1 {
			meaningful++
		}
	}
	return meaningful, total
}
