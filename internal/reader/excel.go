package reader

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"

	"noilens/internal/domain"
)

// readSpreadsheet opens every sheet of an xlsx workbook and builds one
// section per sheet.
func readSpreadsheet(data []byte, fileName string) (*domain.PreprocessedContent, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &domain.ReadError{FileName: fileName, Err: domain.ErrCorruptDocument}
	}
	defer f.Close()

	content := &domain.PreprocessedContent{
		FileName: fileName,
		FileType: domain.FileTypeSpreadsheet,
	}
	var textParts []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		headers, body := splitHeader(rows)
		headers, body = dropArtifactColumns(headers, body)
		text := "Sheet: " + sheet + "\n" + renderTable(headers, body)
		content.Sections = append(content.Sections, domain.Section{
			Name:       sheet,
			Headers:    headers,
			Rows:       body,
			Text:       text,
			Indicators: sectionIndicators(headers, body),
		})
		textParts = append(textParts, text)
	}
	content.Text = strings.Join(textParts, "\n")
	return content, nil
}

// splitHeader treats the first non-empty row as column headers when it has no
// numeric cells, which is how hand-built statements label their columns.
func splitHeader(rows [][]string) ([]string, [][]string) {
	for i, row := range rows {
		if rowEmpty(row) {
			continue
		}
		numeric := false
		for _, cell := range row {
			if domain.IsNumeric(cell) {
				numeric = true
				break
			}
		}
		if numeric {
			return nil, rows[i:]
		}
		return row, rows[i+1:]
	}
	return nil, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// dropArtifactColumns removes value columns that are artifacts of merged
// cells. A column past the first is an artifact when fewer than 10% of its
// non-empty cells parse as numeric. The first column always survives (it
// carries category labels), and at least one value column is always kept.
func dropArtifactColumns(headers []string, rows [][]string) ([]string, [][]string) {
	width := len(headers)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width <= 2 {
		return headers, rows
	}

	numericFrac := make([]float64, width)
	numericCount := make([]int, width)
	for col := 1; col < width; col++ {
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
		numericCount[col] = numeric
		if filled > 0 {
			numericFrac[col] = float64(numeric) / float64(filled)
		}
	}

	keep := make([]bool, width)
	keep[0] = true
	valueKept := 0
	for col := 1; col < width; col++ {
		if numericFrac[col] >= 0.1 {
			keep[col] = true
			valueKept++
		}
	}
	if valueKept == 0 {
		// Keep the least-bad candidate so a sparse statement still has a
		// value column.
		best := 1
		for col := 2; col < width; col++ {
			if numericCount[col] > numericCount[best] {
				best = col
			}
		}
		keep[best] = true
	}

	project := func(row []string) []string {
		out := make([]string, 0, width)
		for col := 0; col < width; col++ {
			if !keep[col] {
				continue
			}
			if col < len(row) {
				out = append(out, row[col])
			} else {
				out = append(out, "")
			}
		}
		return out
	}

	var outHeaders []string
	if len(headers) > 0 {
		outHeaders = project(headers)
	}
	outRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		outRows = append(outRows, project(row))
	}
	return outHeaders, outRows
}
