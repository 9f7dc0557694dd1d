package extractor

import (
	"strings"

	"noilens/internal/domain"
)

// InferDocumentType picks a document type from the file name when the caller
// supplied no hint. Defaults to current-month actuals, which is what most
// uploads turn out to be.
func InferDocumentType(fileName string) domain.DocumentType {
	lower := strings.ToLower(fileName)
	switch {
	case strings.Contains(lower, "budget"):
		return domain.DocTypeBudget
	case strings.Contains(lower, "prior") && strings.Contains(lower, "year"):
		return domain.DocTypePriorYearActuals
	case strings.Contains(lower, "prior"):
		return domain.DocTypePriorMonthActuals
	default:
		return domain.DocTypeCurrentMonthActuals
	}
}

// ResolveDocumentType prefers the caller's hint over filename inference.
func ResolveDocumentType(hint domain.DocumentType, fileName string) domain.DocumentType {
	if hint != "" && hint != domain.DocTypeUnknown {
		return hint
	}
	return InferDocumentType(fileName)
}
