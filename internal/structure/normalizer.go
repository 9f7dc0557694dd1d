package structure

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"noilens/internal/domain"
)

// Markers delimiting sections and formats in normalized text.
const (
	markerSheetStart  = "[SHEET_START: %s]"
	markerSheetEnd    = "[SHEET_END: %s]"
	markerPageStart   = "[PAGE_START: %s]"
	markerPageEnd     = "[PAGE_END: %s]"
	markerStatement   = "[FINANCIAL_STATEMENT_FORMAT]"
	markerTransposed  = "[TRANSPOSED FINANCIAL STATEMENT DETECTED]"
	markerTable       = "[TABLE_FORMAT]"
	markerEmptySheet  = "[EMPTY_SHEET]"
	markerDocumentEnd = "[DOCUMENT_END]"
)

const tableCellCap = 40

// Normalizer renders classified sections into a single annotated text block.
type Normalizer struct {
	detector *Detector
	now      func() time.Time
}

// NewNormalizer returns a text normalizer using the given detector.
func NewNormalizer(detector *Detector) *Normalizer {
	return &Normalizer{detector: detector, now: time.Now}
}

// Normalize renders the whole document: a header, one delimited fragment per
// section in input order, and a terminal marker. Section order is preserved
// so period ambiguity resolves toward the earliest sheet or page.
func (n *Normalizer) Normalize(content *domain.PreprocessedContent) *domain.StructuredText {
	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\n", content.FileName)
	fmt.Fprintf(&b, "Processed: %s\n\n", n.now().UTC().Format(time.RFC3339))

	startMarker, endMarker := markerSheetStart, markerSheetEnd
	if content.FileType == domain.FileTypePDF {
		startMarker, endMarker = markerPageStart, markerPageEnd
	}

	overall := domain.StructureEmpty
	sheets, pages, rowCount := 0, 0, 0
	for i := range content.Sections {
		section := &content.Sections[i]
		class := n.detector.Classify(section)
		overall = dominantClass(overall, class)
		rowCount += len(section.Rows)
		if content.FileType == domain.FileTypePDF {
			pages++
		} else {
			sheets++
		}

		fmt.Fprintf(&b, startMarker+"\n", section.Name)
		b.WriteString(n.NormalizeSection(section, class))
		fmt.Fprintf(&b, endMarker+"\n\n", section.Name)
	}
	b.WriteString(markerDocumentEnd + "\n")

	return &domain.StructuredText{
		Text:           b.String(),
		StructureClass: overall,
		SheetCount:     sheets,
		PageCount:      pages,
		RowCount:       rowCount,
	}
}

// NormalizeSection renders one classified section as a text fragment.
func (n *Normalizer) NormalizeSection(section *domain.Section, class domain.StructureClass) string {
	switch class {
	case domain.StructureFinancialStatement:
		return renderStatement(section)
	case domain.StructureTransposed:
		return renderTransposed(section)
	case domain.StructureGenericTable:
		return renderGenericTable(section)
	case domain.StructurePlainText:
		return strings.TrimSpace(section.Text) + "\n"
	default:
		return markerEmptySheet + "\n"
	}
}

// renderStatement emits one category: value line per row. Header-like rows
// with no parseable value become SECTION lines, and value-only rows inherit
// the nearest preceding category so merged-cell line items keep their label.
func renderStatement(section *domain.Section) string {
	var b strings.Builder
	b.WriteString(markerStatement + "\n")
	lastCategory := ""
	for _, row := range section.Rows {
		if len(row) == 0 {
			continue
		}
		category := strings.TrimSpace(row[0])
		value, hasValue := rowValue(row)
		switch {
		case category != "" && hasValue:
			lastCategory = category
			fmt.Fprintf(&b, "  %s: %s\n", category, formatAmount(value))
		case category != "" && !hasValue:
			lastCategory = category
			fmt.Fprintf(&b, "  SECTION: %s\n", category)
		case category == "" && hasValue && lastCategory != "":
			fmt.Fprintf(&b, "  %s: %s\n", lastCategory, formatAmount(value))
		}
	}
	return b.String()
}

func renderTransposed(section *domain.Section) string {
	var b strings.Builder
	b.WriteString(markerTransposed + "\n")
	row := section.Rows[0]
	for i, header := range section.Headers {
		header = strings.TrimSpace(header)
		if header == "" || i >= len(row) {
			continue
		}
		if v, ok := domain.ParseAmount(row[i]); ok {
			fmt.Fprintf(&b, "  %s: %s\n", header, formatAmount(v))
		} else if cell := strings.TrimSpace(row[i]); cell != "" {
			fmt.Fprintf(&b, "  %s: %s\n", header, cell)
		}
	}
	return b.String()
}

func renderGenericTable(section *domain.Section) string {
	var b strings.Builder
	b.WriteString(markerTable + "\n")
	if len(section.Headers) > 0 {
		b.WriteString("  " + strings.Join(capCells(section.Headers), " | ") + "\n")
	}
	for _, row := range section.Rows {
		b.WriteString("  " + strings.Join(capCells(row), " | ") + "\n")
	}
	return b.String()
}

// rowValue finds the first parseable amount among the row's value columns.
func rowValue(row []string) (float64, bool) {
	for _, cell := range row[1:] {
		if v, ok := domain.ParseAmount(cell); ok {
			return v, true
		}
	}
	return 0, false
}

// formatAmount renders a parsed amount with no trailing zero padding, so the
// value survives normalization byte-for-byte when re-parsed.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func capCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		if len(c) > tableCellCap {
			c = c[:tableCellCap]
		}
		out[i] = c
	}
	return out
}

// dominantClass keeps the most informative classification seen so far as the
// whole-document label.
func dominantClass(current, next domain.StructureClass) domain.StructureClass {
	rank := map[domain.StructureClass]int{
		domain.StructureEmpty:              0,
		domain.StructurePlainText:          1,
		domain.StructureGenericTable:       2,
		domain.StructureTransposed:         3,
		domain.StructureFinancialStatement: 4,
	}
	if rank[next] > rank[current] {
		return next
	}
	return current
}
