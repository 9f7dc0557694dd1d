package extractor

import (
	"encoding/json"
	"fmt"
	"math"

	"noilens/internal/domain"
)

// mathTolerance is the dollar tolerance for arithmetic consistency checks.
// Source documents round line items, so totals may be off by cents.
const mathTolerance = 1.0

// ResultValidator merges raw extracted fields into the canonical schema,
// re-derives EGI and NOI, and flags inconsistencies.
type ResultValidator struct{}

// NewResultValidator returns a result validator.
func NewResultValidator() *ResultValidator {
	return &ResultValidator{}
}

// Validate builds a complete FinancialRecord from whatever the completion
// returned. Missing canonical fields default to 0, unparseable values coerce
// to 0, and derived totals are recomputed when absent or inconsistent. The
// returned audit lines describe every adjustment made.
func (v *ResultValidator) Validate(record *domain.FinancialRecord, raw map[string]interface{}, confidence domain.ConfidenceMap) []string {
	var audit []string
	if confidence == nil {
		confidence = domain.ConfidenceMap{}
	}

	for key, value := range raw {
		if !domain.IsCanonicalField(key) {
			continue
		}
		record.Fields[key] = coerceAmount(value)
	}

	fields := record.Fields
	derivedEGI := func() float64 {
		return fields[domain.FieldGrossPotentialRent] -
			fields[domain.FieldVacancyLoss] -
			fields[domain.FieldConcessions] -
			fields[domain.FieldBadDebt] +
			fields[domain.FieldOtherIncome]
	}

	// A reported zero is indistinguishable from an omitted field, so zero
	// derived totals are always recomputed from their components.
	if fields[domain.FieldEffectiveGrossIncome] == 0 {
		fields[domain.FieldEffectiveGrossIncome] = derivedEGI()
		audit = append(audit, "INFO: effective_gross_income derived from components")
	}
	if fields[domain.FieldNetOperatingIncome] == 0 {
		fields[domain.FieldNetOperatingIncome] = fields[domain.FieldEffectiveGrossIncome] - fields[domain.FieldOperatingExpenses]
		audit = append(audit, "INFO: net_operating_income derived from components")
	}

	// Consistency cross-check. A reported total that does not foot within
	// the tolerance is overwritten with the calculation, whatever the scores
	// say about its inputs.
	if calculated, reported := derivedEGI(), fields[domain.FieldEffectiveGrossIncome]; math.Abs(calculated-reported) > mathTolerance {
		fields[domain.FieldEffectiveGrossIncome] = calculated
		if blended := confidence[domain.FieldGrossPotentialRent] * 0.9; blended > confidence[domain.FieldEffectiveGrossIncome] {
			confidence[domain.FieldEffectiveGrossIncome] = blended
		}
		audit = append(audit, fmt.Sprintf(
			"WARNING: effective_gross_income inconsistent (reported %s, calculated %s), overwrote with calculation",
			fmtf(reported), fmtf(calculated)))
	}
	calculatedNOI := fields[domain.FieldEffectiveGrossIncome] - fields[domain.FieldOperatingExpenses]
	if reported := fields[domain.FieldNetOperatingIncome]; math.Abs(calculatedNOI-reported) > mathTolerance {
		fields[domain.FieldNetOperatingIncome] = calculatedNOI
		blended := math.Min(confidence[domain.FieldEffectiveGrossIncome], confidence[domain.FieldOperatingExpenses]) * 0.9
		if blended > confidence[domain.FieldNetOperatingIncome] {
			confidence[domain.FieldNetOperatingIncome] = blended
		}
		audit = append(audit, fmt.Sprintf(
			"WARNING: net_operating_income inconsistent (reported %s, calculated %s), overwrote with calculation",
			fmtf(reported), fmtf(calculatedNOI)))
	}

	// NaN or infinite values must never escape the schema.
	for key, value := range fields {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			fields[key] = 0
			audit = append(audit, fmt.Sprintf("WARNING: %s was not finite, reset to 0", key))
		}
	}

	if fields[domain.FieldGrossPotentialRent] == 0 &&
		fields[domain.FieldEffectiveGrossIncome] == 0 &&
		fields[domain.FieldNetOperatingIncome] == 0 {
		audit = append(audit, "WARNING: all headline metrics are zero, extraction may have failed")
	}

	return audit
}

// coerceAmount turns whatever JSON value the model produced into a float.
// Strings get monetary cleaning; anything unparseable becomes 0.
func coerceAmount(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case string:
		if f, ok := domain.ParseAmount(v); ok {
			return f
		}
	}
	return 0
}

func fmtf(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
