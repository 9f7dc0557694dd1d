package extractor

import (
	"strings"

	"noilens/internal/domain"
)

// DefaultPromptBudget caps the normalized text included in one prompt, in
// characters. Bounded text bounds cost and latency per completion call.
const DefaultPromptBudget = 3000

// PromptBuilder renders document-type-aware extraction instructions around
// normalized document text.
type PromptBuilder struct {
	Budget int
}

// NewPromptBuilder returns a builder with the given text budget. A zero or
// negative budget falls back to the default.
func NewPromptBuilder(budget int) *PromptBuilder {
	if budget <= 0 {
		budget = DefaultPromptBudget
	}
	return &PromptBuilder{Budget: budget}
}

// Build renders the full extraction prompt. Intensified prompts are used on
// retry attempts and add explicit formatting re-checks instead of repeating
// the same instructions verbatim.
func (p *PromptBuilder) Build(text string, docType domain.DocumentType, intensified bool) string {
	var b strings.Builder

	b.WriteString("You are a commercial real-estate financial analyst. Extract the financial metrics below from the document text.\n\n")
	b.WriteString(docTypeGuidance(docType))
	b.WriteString("\n")

	b.WriteString("Extract values for these exact JSON keys (use 0 only when the document truly reports zero):\n")
	for _, f := range domain.CanonicalFields {
		b.WriteString("  - " + f + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Common label synonyms:\n")
	b.WriteString("  - gross_potential_rent: Rent, Rental Income, Gross Rent, Scheduled Rent, Revenue\n")
	b.WriteString("  - vacancy_loss: Vacancy, Vacancy Allowance, Loss to Vacancy\n")
	b.WriteString("  - operating_expenses: OpEx, Total Expenses, Total Operating Expenses\n")
	b.WriteString("  - effective_gross_income: EGI, Total Income, Gross Operating Income\n")
	b.WriteString("  - net_operating_income: NOI, Net Income\n")
	b.WriteString("  - repairs_maintenance: R&M, Maintenance, Repairs\n")
	b.WriteString("  - other_income: Misc Income, Ancillary Income\n\n")

	b.WriteString("Number format rules:\n")
	b.WriteString("  - Values in parentheses are negative: (1,250.00) means -1250.00\n")
	b.WriteString("  - Strip currency symbols and thousands separators\n")
	b.WriteString("  - Losses and expenses keep their sign as reported\n\n")

	b.WriteString("Derivations that must hold:\n")
	b.WriteString("  effective_gross_income = gross_potential_rent - vacancy_loss - concessions - bad_debt + other_income\n")
	b.WriteString("  net_operating_income = effective_gross_income - operating_expenses\n\n")

	if intensified {
		b.WriteString("IMPORTANT, this is a retry because the previous response was unusable:\n")
		b.WriteString("  - Re-check every number's formatting against the rules above\n")
		b.WriteString("  - Do not omit any of the required keys\n")
		b.WriteString("  - Verify the JSON syntax is valid before responding\n\n")
	}

	b.WriteString("Return ONLY a JSON object, no prose or markdown, shaped exactly as:\n")
	b.WriteString(`{"financial_data": {"gross_potential_rent": 0.0, ...}, "confidence_scores": {"gross_potential_rent": 0.0, ...}}`)
	b.WriteString("\nEach confidence score is your certainty in [0,1] for that field.\n\n")

	b.WriteString("Document text:\n")
	b.WriteString(truncateText(text, p.Budget))

	return b.String()
}

func docTypeGuidance(docType domain.DocumentType) string {
	switch docType {
	case domain.DocTypeBudget:
		return "This document is a BUDGET: the figures are projections, not realized results. Extract the budgeted amounts as stated.\n"
	case domain.DocTypePriorYearActuals:
		return "This document holds PRIOR YEAR actual results. Extract the full prior-year figures, not year-to-date partials.\n"
	case domain.DocTypePriorMonthActuals:
		return "This document holds the PRIOR MONTH's actual results, not projections.\n"
	default:
		return "This document holds the CURRENT MONTH's ACTUAL results, not projections. When multiple periods appear, prefer the most recent actual column.\n"
	}
}

// truncateText bounds the text to budget characters, keeping roughly 70%
// from the start and the remainder from the end. Cuts land on line
// boundaries so no number is ever split in half.
func truncateText(text string, budget int) string {
	if len(text) <= budget {
		return text
	}
	const marker = "\n...[TRUNCATED]...\n"
	headBudget := budget * 7 / 10
	tailBudget := budget - headBudget - len(marker)
	if tailBudget < 0 {
		tailBudget = 0
	}

	head := text[:headBudget]
	if i := strings.LastIndexByte(head, '\n'); i > 0 {
		head = head[:i]
	}

	tail := text[len(text)-tailBudget:]
	if i := strings.IndexByte(tail, '\n'); i >= 0 {
		tail = tail[i+1:]
	}

	return head + marker + tail
}
