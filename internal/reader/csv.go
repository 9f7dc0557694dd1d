package reader

import (
	"encoding/csv"
	"strings"

	"noilens/internal/domain"
)

// readCSV decodes and parses a delimited-text document into a single section.
func readCSV(data []byte, fileName string) (*domain.PreprocessedContent, error) {
	text, err := decodeBytes(data)
	if err != nil {
		return nil, &domain.ReadError{FileName: fileName, Err: domain.ErrCorruptDocument}
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, &domain.ReadError{FileName: fileName, Err: domain.ErrCorruptDocument}
	}

	var rows [][]string
	for _, rec := range records {
		if !rowEmpty(rec) {
			rows = append(rows, rec)
		}
	}

	headers, body := splitHeader(rows)
	content := &domain.PreprocessedContent{
		FileName: fileName,
		FileType: domain.FileTypeCSV,
		Sections: []domain.Section{{
			Name:       "document",
			Headers:    headers,
			Rows:       body,
			Text:       renderTable(headers, body),
			Indicators: sectionIndicators(headers, body),
		}},
	}
	content.Text = content.Sections[0].Text
	return content, nil
}
