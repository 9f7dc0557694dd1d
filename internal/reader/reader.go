// Package reader turns raw document bytes into preprocessed content:
// ordered sections of tabular rows plus a concatenated text blob, dispatched
// per format (spreadsheet, CSV, PDF, plain text).
package reader

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"noilens/internal/domain"
)

// Reader dispatches document bytes to a per-format handler.
type Reader struct{}

// New returns a format reader.
func New() *Reader {
	return &Reader{}
}

// Read parses the document into sections. The format is picked from the file
// extension; an unknown extension falls back to MIME sniffing so a plausible
// spreadsheet with a weird name is read rather than rejected.
func (r *Reader) Read(data []byte, fileName string) (*domain.PreprocessedContent, error) {
	if len(data) == 0 {
		return nil, &domain.ReadError{FileName: fileName, Err: domain.ErrEmptyDocument}
	}

	ft, ok := typeForFile(data, fileName)
	if !ok {
		return nil, &domain.ReadError{FileName: fileName, Err: domain.ErrUnsupportedFormat}
	}

	var (
		content *domain.PreprocessedContent
		err     error
	)
	switch ft {
	case domain.FileTypeSpreadsheet:
		content, err = readSpreadsheet(data, fileName)
	case domain.FileTypeCSV:
		content, err = readCSV(data, fileName)
	case domain.FileTypePDF:
		content, err = readPDF(data, fileName)
	case domain.FileTypeText:
		content, err = readText(data, fileName)
	default:
		return nil, &domain.ReadError{FileName: fileName, Err: domain.ErrUnsupportedFormat}
	}
	if err != nil {
		return nil, err
	}

	log.Printf("reader: parsed %s as %s (%d sections)", fileName, ft, len(content.Sections))
	return content, nil
}

// typeForFile resolves the file type from the extension, falling back to the
// sniffed MIME type when the extension is missing or unrecognized.
func typeForFile(data []byte, fileName string) (domain.FileType, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if ft, ok := domain.ExtensionTypes[ext]; ok {
		return ft, true
	}
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if ft, ok := domain.ContentTypes[m.String()]; ok {
			return ft, true
		}
	}
	return "", false
}

// sectionIndicators computes the structure indicator tags recorded on each
// section: financial vocabulary hits and the count of numeric columns.
func sectionIndicators(headers []string, rows [][]string) []string {
	var indicators []string
	seen := map[string]bool{}
	note := func(term string) {
		if !seen[term] {
			seen[term] = true
			indicators = append(indicators, "financial_keyword:"+term)
		}
	}
	scan := func(cell string) {
		lower := strings.ToLower(cell)
		for _, term := range domain.FinancialVocabulary {
			if strings.Contains(lower, term) {
				note(term)
			}
		}
	}
	for _, h := range headers {
		scan(h)
	}
	for _, row := range rows {
		if len(row) > 0 {
			scan(row[0])
		}
	}

	width := len(headers)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	numericCols := 0
	for col := 0; col < width; col++ {
		numeric, filled := 0, 0
		for _, row := range rows {
			if col >= len(row) || strings.TrimSpace(row[col]) == "" {
				continue
			}
			filled++
			if domain.IsNumeric(row[col]) {
				numeric++
			}
		}
		if filled > 0 && float64(numeric)/float64(filled) > 0.3 {
			numericCols++
		}
	}
	if numericCols > 0 {
		indicators = append(indicators, fmt.Sprintf("numeric_columns:%d", numericCols))
	}
	return indicators
}

// renderTable produces the plain-text dump a section carries alongside its
// rows. Cells are pipe-joined so downstream text heuristics see column edges.
func renderTable(headers []string, rows [][]string) string {
	var b strings.Builder
	if len(headers) > 0 {
		b.WriteString(strings.Join(headers, " | "))
		b.WriteString("\n")
	}
	for _, row := range rows {
		b.WriteString(strings.Join(row, " | "))
		b.WriteString("\n")
	}
	return b.String()
}
