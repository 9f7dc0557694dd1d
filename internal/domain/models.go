package domain

import "time"

// RawDocument is an immutable in-memory financial document handed to the
// pipeline. The type hint is optional and best-effort.
type RawDocument struct {
	FileName string
	Data     []byte
	TypeHint DocumentType
}

// Section is one logical unit of a preprocessed document: a spreadsheet
// sheet, a PDF page, or the whole document for flat formats.
type Section struct {
	Name       string
	Headers    []string
	Rows       [][]string
	Text       string
	Indicators []string
}

// HasRows reports whether the section carries any tabular data.
func (s *Section) HasRows() bool {
	return len(s.Rows) > 0
}

// PreprocessedContent is the output of a format reader: ordered sections plus
// a concatenated text blob. The blob is always present, possibly empty.
type PreprocessedContent struct {
	FileName string
	FileType FileType
	Sections []Section
	Text     string
}

// StructuredText is the normalizer's output: the annotated text block handed
// to extraction, plus document-level structure metadata.
type StructuredText struct {
	Text           string
	StructureClass StructureClass
	SheetCount     int
	PageCount      int
	RowCount       int
}

// FinancialRecord is the canonical output schema. Fields always contains the
// full canonical field set with numeric defaults of 0.
type FinancialRecord struct {
	FileName            string             `json:"file_name"`
	DocumentType        DocumentType       `json:"document_type"`
	ExtractionStatus    ExtractionStatus   `json:"extraction_status"`
	RequiresManualEntry bool               `json:"requires_manual_entry"`
	ErrorMessage        string             `json:"error_message,omitempty"`
	Fields              map[string]float64 `json:"fields"`
}

// NewFinancialRecord returns a record with every canonical field present at 0.
func NewFinancialRecord(fileName string, docType DocumentType) FinancialRecord {
	fields := make(map[string]float64, len(CanonicalFields))
	for _, f := range CanonicalFields {
		fields[f] = 0
	}
	return FinancialRecord{
		FileName:     fileName,
		DocumentType: docType,
		Fields:       fields,
	}
}

// ConfidenceMap carries a per-field confidence score in [0,1].
type ConfidenceMap map[string]float64

// Average returns the mean score across all present fields, or 0 when empty.
func (c ConfidenceMap) Average() float64 {
	if len(c) == 0 {
		return 0
	}
	var sum float64
	for _, v := range c {
		sum += v
	}
	return sum / float64(len(c))
}

// Level maps the aggregate score to an ordinal level. Empty maps are always
// Uncertain regardless of how the zero average would threshold.
func (c ConfidenceMap) Level() ConfidenceLevel {
	if len(c) == 0 {
		return ConfidenceUncertain
	}
	return LevelForScore(c.Average())
}

// ExtractionResult is the orchestrator's terminal output for one document.
type ExtractionResult struct {
	ID           string          `json:"id"`
	Record       FinancialRecord `json:"record"`
	Level        ConfidenceLevel `json:"confidence_level"`
	Confidence   ConfidenceMap   `json:"confidence_scores"`
	AuditTrail   []string        `json:"audit_trail"`
	Elapsed      time.Duration   `json:"elapsed"`
	DocumentType DocumentType    `json:"document_type"`
	Method       string          `json:"method"`
}
