// Package export writes extraction results as CSV for spreadsheet review.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"noilens/internal/domain"
)

// BOM is the UTF-8 byte order mark, written first for Excel compatibility on
// Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row: metadata first, then every canonical
// metric in schema order.
var columns = buildColumns()

func buildColumns() []string {
	cols := []string{
		"Document Name",
		"Document Type",
		"Extraction Status",
		"Method",
		"Confidence Level",
		"Requires Manual Entry",
		"Error",
	}
	for _, f := range domain.CanonicalFields {
		cols = append(cols, fieldTitle(f))
	}
	return cols
}

// fieldTitle turns a canonical field name into a readable column header,
// e.g. "gross_potential_rent" becomes "Gross Potential Rent".
func fieldTitle(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Writer wraps csv.Writer for exporting extraction results.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteResults converts a batch of extraction results to CSV rows.
func (w *Writer) WriteResults(results []*domain.ExtractionResult) error {
	for _, r := range results {
		if err := w.csv.Write(resultToRow(r)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func resultToRow(r *domain.ExtractionResult) []string {
	row := make([]string, 0, len(columns))
	row = append(row,
		r.Record.FileName,
		string(r.Record.DocumentType),
		string(r.Record.ExtractionStatus),
		r.Method,
		string(r.Level),
		formatBool(r.Record.RequiresManualEntry),
		r.Record.ErrorMessage,
	)
	for _, f := range domain.CanonicalFields {
		row = append(row, formatMoney(r.Record.Fields[f]))
	}
	return row
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition. Replaces
// non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header, shaped as {sanitized_name}_{YYYY-MM-DD}.csv.
func BuildFilename(name string) string {
	return fmt.Sprintf("%s_%s.csv", SanitizeFilename(name), time.Now().Format("2006-01-02"))
}
