package domain

import (
	"strconv"
	"strings"
)

// ParseAmount parses a monetary cell value. Currency symbols and thousands
// separators are stripped, and accounting-style parenthesis values become
// negative, so "$ (1,250.00)" parses to -1250.
func ParseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// IsNumeric reports whether the cell parses as a monetary amount.
func IsNumeric(raw string) bool {
	_, ok := ParseAmount(raw)
	return ok
}

// HasFinancialTerm reports whether s contains any financial vocabulary term,
// case-insensitive.
func HasFinancialTerm(s string) bool {
	lower := strings.ToLower(s)
	for _, term := range FinancialVocabulary {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
