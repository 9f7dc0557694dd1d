package domain

// DocumentType identifies which reporting period a financial document covers.
type DocumentType string

const (
	DocTypeCurrentMonthActuals DocumentType = "current_month_actuals"
	DocTypePriorMonthActuals   DocumentType = "prior_month_actuals"
	DocTypeBudget              DocumentType = "current_month_budget"
	DocTypePriorYearActuals    DocumentType = "prior_year_actuals"
	DocTypeUnknown             DocumentType = "unknown"
)

// ConfidenceLevel is the ordinal overall confidence of one extraction.
type ConfidenceLevel string

const (
	ConfidenceHigh      ConfidenceLevel = "high"
	ConfidenceMedium    ConfidenceLevel = "medium"
	ConfidenceLow       ConfidenceLevel = "low"
	ConfidenceUncertain ConfidenceLevel = "uncertain"
)

// LevelForScore maps an aggregate confidence score to its ordinal level.
func LevelForScore(score float64) ConfidenceLevel {
	switch {
	case score >= 0.8:
		return ConfidenceHigh
	case score >= 0.6:
		return ConfidenceMedium
	case score >= 0.4:
		return ConfidenceLow
	default:
		return ConfidenceUncertain
	}
}

// ExtractionStatus reports how an extraction attempt ended.
type ExtractionStatus string

const (
	StatusCompleted       ExtractionStatus = "completed"
	StatusFailed          ExtractionStatus = "failed"
	StatusNoFinancialData ExtractionStatus = "no_financial_data"
)

// FileType is the coarse document format used to pick a reader.
type FileType string

const (
	FileTypeSpreadsheet FileType = "spreadsheet"
	FileTypeCSV         FileType = "csv"
	FileTypePDF         FileType = "pdf"
	FileTypeText        FileType = "text"
)

// StructureClass is the detected layout of one document section.
type StructureClass string

const (
	StructureFinancialStatement StructureClass = "financial_statement"
	StructureTransposed         StructureClass = "transposed_financial_statement"
	StructureGenericTable       StructureClass = "table"
	StructurePlainText          StructureClass = "plain_text"
	StructureEmpty              StructureClass = "empty"
)

// ExtensionTypes maps lowercase file extensions (without the dot) to a FileType.
var ExtensionTypes = map[string]FileType{
	"xlsx": FileTypeSpreadsheet,
	"xls":  FileTypeSpreadsheet,
	"csv":  FileTypeCSV,
	"pdf":  FileTypePDF,
	"txt":  FileTypeText,
}

// ContentTypes maps detected MIME types to a FileType for documents whose
// extension is missing or lies about the payload.
var ContentTypes = map[string]FileType{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": FileTypeSpreadsheet,
	"application/vnd.ms-excel": FileTypeSpreadsheet,
	"text/csv":                 FileTypeCSV,
	"application/pdf":          FileTypePDF,
	"text/plain":               FileTypeText,
}
