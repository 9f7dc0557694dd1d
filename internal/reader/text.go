package reader

import (
	"regexp"
	"strings"

	"noilens/internal/domain"
)

var (
	spaceRuns   = regexp.MustCompile(`[ \t]+`)
	newlineRuns = regexp.MustCompile(`\n{3,}`)
)

// readText decodes a plain-text document and collapses redundant whitespace.
// No tabular structure is produced.
func readText(data []byte, fileName string) (*domain.PreprocessedContent, error) {
	text, err := decodeBytes(data)
	if err != nil {
		return nil, &domain.ReadError{FileName: fileName, Err: domain.ErrCorruptDocument}
	}
	text = cleanText(text)

	content := &domain.PreprocessedContent{
		FileName: fileName,
		FileType: domain.FileTypeText,
		Sections: []domain.Section{{
			Name:       "document",
			Text:       text,
			Indicators: textIndicators(text),
		}},
		Text: text,
	}
	return content, nil
}

// cleanText normalizes line endings and collapses whitespace runs while
// preserving paragraph breaks.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(spaceRuns.ReplaceAllString(line, " "), " ")
	}
	s = strings.Join(lines, "\n")
	s = newlineRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// textIndicators records financial vocabulary hits found in free text.
func textIndicators(text string) []string {
	var indicators []string
	lower := strings.ToLower(text)
	for _, term := range domain.FinancialVocabulary {
		if strings.Contains(lower, term) {
			indicators = append(indicators, "financial_keyword:"+term)
		}
	}
	return indicators
}
