package reader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"noilens/internal/domain"
)

// readPDF validates the document with pdfcpu, then extracts text per page
// and detects category/value table lines within each page.
func readPDF(data []byte, fileName string) (*domain.PreprocessedContent, error) {
	conf := model.NewDefaultConfiguration()
	if _, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf); err != nil {
		return nil, &domain.ReadError{FileName: fileName, Err: domain.ErrCorruptDocument}
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &domain.ReadError{FileName: fileName, Err: domain.ErrCorruptDocument}
	}

	content := &domain.PreprocessedContent{
		FileName: fileName,
		FileType: domain.FileTypePDF,
	}
	var textParts []string
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}
		pageText := pageText(p)
		rows := detectTableRows(pageText)

		section := domain.Section{
			Name:       fmt.Sprintf("page_%d", pageIndex),
			Rows:       rows,
			Text:       pageText,
			Indicators: sectionIndicators(nil, rows),
		}
		if len(rows) == 0 {
			section.Indicators = textIndicators(pageText)
		} else {
			section.Indicators = append(section.Indicators, fmt.Sprintf("table_rows:%d", len(rows)))
		}
		content.Sections = append(content.Sections, section)
		textParts = append(textParts, pageText)
	}
	content.Text = strings.Join(textParts, "\n")
	return content, nil
}

// pageText joins the page's positioned text runs into lines.
func pageText(p pdf.Page) string {
	rows, err := p.GetTextByRow()
	if err != nil {
		return ""
	}
	var b strings.Builder
	for _, row := range rows {
		var line []string
		for _, word := range row.Content {
			if s := strings.TrimSpace(word.S); s != "" {
				line = append(line, s)
			}
		}
		if len(line) > 0 {
			b.WriteString(strings.Join(line, " "))
			b.WriteString("\n")
		}
	}
	return cleanText(b.String())
}

// detectTableRows pulls category/value pairs out of page text. A line whose
// trailing token parses as a monetary amount is treated as one table row with
// the rest of the line as the category.
func detectTableRows(text string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) < 2 {
			continue
		}
		last := tokens[len(tokens)-1]
		if !domain.IsNumeric(last) {
			continue
		}
		category := strings.Join(tokens[:len(tokens)-1], " ")
		// Trailing amounts with a separate parenthesis or dollar token glue
		// back onto the value, not the category.
		if strings.HasSuffix(category, "$") {
			category = strings.TrimSpace(strings.TrimSuffix(category, "$"))
			last = "$" + last
		}
		if category == "" {
			continue
		}
		rows = append(rows, []string{category, last})
	}
	return rows
}
