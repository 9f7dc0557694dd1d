// Package structure classifies preprocessed document sections and renders
// them into annotated text for extraction.
package structure

import (
	"strings"

	"noilens/internal/domain"
)

// Detector classifies a section's layout.
type Detector struct{}

// NewDetector returns a structure detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Classify decides the section's layout class. Financial statements win over
// generic tables whenever both patterns match, since the statement rendering
// produces denser category/value text.
func (d *Detector) Classify(section *domain.Section) domain.StructureClass {
	width := sectionWidth(section)

	if d.isFinancialStatement(section, width) {
		return domain.StructureFinancialStatement
	}
	if d.isTransposed(section, width) {
		return domain.StructureTransposed
	}
	if width >= 2 && hasAnyContent(section) {
		return domain.StructureGenericTable
	}
	if strings.TrimSpace(section.Text) != "" {
		return domain.StructurePlainText
	}
	return domain.StructureEmpty
}

func (d *Detector) isFinancialStatement(section *domain.Section, width int) bool {
	if width < 2 {
		return false
	}
	hasVocabulary := false
	if len(section.Rows) > 0 {
		for _, row := range section.Rows {
			if len(row) > 0 && domain.HasFinancialTerm(row[0]) {
				hasVocabulary = true
				break
			}
		}
	} else {
		for _, line := range strings.Split(section.Text, "\n") {
			if domain.HasFinancialTerm(line) {
				hasVocabulary = true
				break
			}
		}
	}
	if !hasVocabulary {
		return false
	}

	numeric, filled := 0, 0
	for _, row := range section.Rows {
		if len(row) < 2 || strings.TrimSpace(row[1]) == "" {
			continue
		}
		filled++
		if domain.IsNumeric(row[1]) {
			numeric++
		}
	}
	return filled > 0 && float64(numeric)/float64(filled) > 0.3
}

// isTransposed spots line items laid out as column headers with a single row
// of amounts beneath them.
func (d *Detector) isTransposed(section *domain.Section, width int) bool {
	if len(section.Rows) != 1 || width < 2 || len(section.Headers) < 2 {
		return false
	}
	vocabHeaders := 0
	for _, h := range section.Headers {
		if domain.HasFinancialTerm(h) {
			vocabHeaders++
		}
	}
	return vocabHeaders >= 2
}

func sectionWidth(section *domain.Section) int {
	width := len(section.Headers)
	for _, row := range section.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

func hasAnyContent(section *domain.Section) bool {
	for _, h := range section.Headers {
		if strings.TrimSpace(h) != "" {
			return true
		}
	}
	for _, row := range section.Rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return true
			}
		}
	}
	return false
}
