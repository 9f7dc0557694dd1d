package extractor

import (
	"regexp"
	"strings"

	"noilens/internal/domain"
)

// MethodHeuristic labels results produced without a completion call.
const MethodHeuristic = "heuristic"

// MethodCompletion labels results produced by the completion pipeline.
const MethodCompletion = "gpt_extraction"

const amountPattern = `(-?\(?[\d,]+\.?\d*\)?)`

// labelPattern pairs a field with the label variations that identify it in
// free text. Order matters: specific labels must match before catch-alls.
type labelPattern struct {
	field string
	re    *regexp.Regexp
}

var heuristicPatterns = buildHeuristicPatterns()

func buildHeuristicPatterns() []labelPattern {
	specs := []struct {
		field  string
		labels string
	}{
		{domain.FieldGrossPotentialRent, `gross\s+potential\s+rent|gpr|potential\s+rent|scheduled\s+rent|total\s+rental\s+income|gross\s+rental\s+income`},
		{domain.FieldVacancyLoss, `vacancy\s+loss|vacancy\s+and\s+credit\s+loss|vacancy|credit\s+loss|turnover\s+loss`},
		{domain.FieldConcessions, `tenant\s+concessions|leasing\s+concessions|move-in\s+concessions|concessions?|free\s+rent`},
		{domain.FieldBadDebt, `bad\s+debt|uncollected\s+rent|delinquent\s+rent|write-offs`},
		{domain.FieldEffectiveGrossIncome, `effective\s+gross\s+income|egi|net\s+rental\s+income|adjusted\s+gross\s+income`},
		{domain.FieldNetOperatingIncome, `net\s+operating\s+income|noi|property\s+net\s+income`},
		{domain.FieldOperatingExpenses, `total\s+operating\s+expenses|operating\s+expenses?|opex|operating\s+costs`},
		{domain.FieldPropertyTaxes, `property\s+tax(?:es)?`},
		{domain.FieldInsurance, `insurance`},
		{domain.FieldRepairsMaintenance, `repairs?\s+(?:&|and)\s+maintenance|maintenance|repairs?`},
		{domain.FieldUtilityReimbursements, `utility\s+reimbursements?`},
		{domain.FieldUtilities, `utilit(?:y|ies)`},
		{domain.FieldManagementFees, `management\s+fees?`},
		{domain.FieldParkingIncome, `parking\s+(?:fees?|income)`},
		{domain.FieldLaundryIncome, `laundry\s+(?:fees?|income)`},
		{domain.FieldLateFees, `late\s+fees?`},
		{domain.FieldPetFees, `pet\s+fees?`},
		{domain.FieldApplicationFees, `application\s+fees?`},
		{domain.FieldStorageFees, `storage\s+fees?`},
		{domain.FieldAmenityFees, `amenity\s+fees?`},
		{domain.FieldCleaningFees, `cleaning\s+fees?`},
		{domain.FieldCancellationFees, `cancellation\s+fees?`},
		{domain.FieldMiscellaneousIncome, `miscellaneous\s+income`},
		{domain.FieldOtherIncome, `other\s+income|additional\s+income|ancillary\s+income`},
	}
	patterns := make([]labelPattern, 0, len(specs))
	for _, s := range specs {
		patterns = append(patterns, labelPattern{
			field: s.field,
			re:    regexp.MustCompile(`(?i)\b(?:` + s.labels + `)\b\D{0,20}?` + amountPattern),
		})
	}
	return patterns
}

// HeuristicExtractor pulls metric values straight out of normalized text with
// label/amount regex matching. It serves as the extraction strategy when no
// completion client is configured, and costs nothing to run.
type HeuristicExtractor struct{}

// NewHeuristicExtractor returns a heuristic extractor.
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

// Extract scans the text for labeled amounts. Each field takes its first
// match. The confidence map stays empty: pattern matching carries no
// certainty estimate, so the overall level reports Uncertain.
func (h *HeuristicExtractor) Extract(text string) (map[string]interface{}, domain.ConfidenceMap) {
	fields := map[string]interface{}{}
	lower := strings.ToLower(text)
	for _, p := range heuristicPatterns {
		if _, seen := fields[p.field]; seen {
			continue
		}
		m := p.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if v, ok := domain.ParseAmount(m[1]); ok {
			fields[p.field] = v
		}
	}
	return fields, domain.ConfidenceMap{}
}
