package extractor

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noilens/internal/domain"
)

func validateRaw(t *testing.T, raw map[string]interface{}, confidence domain.ConfidenceMap) (domain.FinancialRecord, []string) {
	t.Helper()
	record := domain.NewFinancialRecord("test.csv", domain.DocTypeCurrentMonthActuals)
	audit := NewResultValidator().Validate(&record, raw, confidence)
	return record, audit
}

func warnings(audit []string) []string {
	var out []string
	for _, line := range audit {
		if strings.HasPrefix(line, "WARNING") {
			out = append(out, line)
		}
	}
	return out
}

func TestValidateSchemaCompleteness(t *testing.T) {
	// Garbage in, full canonical schema out.
	raw := map[string]interface{}{
		"gross_potential_rent": "not a number",
		"vacancy_loss":         nil,
		"mystery_field":        12345,
		"insurance":            "$1,200.00",
		"utilities":            true,
	}
	record, _ := validateRaw(t, raw, domain.ConfidenceMap{})

	assert.Len(t, record.Fields, len(domain.CanonicalFields))
	for _, f := range domain.CanonicalFields {
		v, ok := record.Fields[f]
		require.True(t, ok, f)
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), f)
	}
	assert.Equal(t, 0.0, record.Fields[domain.FieldGrossPotentialRent])
	assert.Equal(t, 1200.0, record.Fields[domain.FieldInsurance])
	_, leaked := record.Fields["mystery_field"]
	assert.False(t, leaked)
}

func TestValidateConsistencySelfHealing(t *testing.T) {
	raw := map[string]interface{}{
		"gross_potential_rent":   80000.0,
		"vacancy_loss":           2000.0,
		"concessions":            1000.0,
		"bad_debt":               500.0,
		"other_income":           3950.0,
		"effective_gross_income": 50000.0,
		"operating_expenses":     16250.0,
		"net_operating_income":   30000.0,
	}
	confidence := domain.ConfidenceMap{}
	for k := range raw {
		confidence[k] = 0.9
	}

	record, audit := validateRaw(t, raw, confidence)

	assert.InDelta(t, 80450.0, record.Fields[domain.FieldEffectiveGrossIncome], 1.0)
	assert.InDelta(t, 64200.0, record.Fields[domain.FieldNetOperatingIncome], 1.0)

	w := warnings(audit)
	require.Len(t, w, 2)
	assert.Contains(t, w[0], "effective_gross_income inconsistent")
	assert.Contains(t, w[1], "net_operating_income inconsistent")
}

func TestValidateDerivesZeroTotals(t *testing.T) {
	raw := map[string]interface{}{
		"gross_potential_rent": 80000.0,
		"vacancy_loss":         2000.0,
		"other_income":         3950.0,
		"operating_expenses":   16250.0,
	}
	record, _ := validateRaw(t, raw, domain.ConfidenceMap{})

	assert.InDelta(t, 81950.0, record.Fields[domain.FieldEffectiveGrossIncome], 0.01)
	assert.InDelta(t, 65700.0, record.Fields[domain.FieldNetOperatingIncome], 0.01)
}

func TestValidateToleratesRoundingInTotals(t *testing.T) {
	raw := map[string]interface{}{
		"gross_potential_rent":   80000.0,
		"vacancy_loss":           2000.0,
		"other_income":           3950.0,
		"effective_gross_income": 81950.40,
		"operating_expenses":     16250.0,
		"net_operating_income":   65700.40,
	}
	confidence := domain.ConfidenceMap{}
	for k := range raw {
		confidence[k] = 0.9
	}
	record, audit := validateRaw(t, raw, confidence)

	// Within the $1 tolerance nothing is overwritten.
	assert.Equal(t, 81950.40, record.Fields[domain.FieldEffectiveGrossIncome])
	assert.Equal(t, 65700.40, record.Fields[domain.FieldNetOperatingIncome])
	assert.Empty(t, warnings(audit))
}

func TestValidateConsistencyRunsWithoutConfidenceScores(t *testing.T) {
	// The arithmetic check does not depend on the model scoring its inputs:
	// an empty confidence map still gets inconsistent totals corrected.
	raw := map[string]interface{}{
		"gross_potential_rent":   80000.0,
		"vacancy_loss":           2000.0,
		"concessions":            1000.0,
		"bad_debt":               500.0,
		"other_income":           3950.0,
		"effective_gross_income": 50000.0,
		"operating_expenses":     16250.0,
		"net_operating_income":   30000.0,
	}
	record, audit := validateRaw(t, raw, domain.ConfidenceMap{})

	assert.InDelta(t, 80450.0, record.Fields[domain.FieldEffectiveGrossIncome], 0.01)
	assert.InDelta(t, 64200.0, record.Fields[domain.FieldNetOperatingIncome], 0.01)

	w := warnings(audit)
	require.Len(t, w, 2)
	assert.Contains(t, w[0], "effective_gross_income inconsistent")
	assert.Contains(t, w[1], "net_operating_income inconsistent")
}

func TestValidateConsistencyWithNilConfidenceMap(t *testing.T) {
	raw := map[string]interface{}{
		"gross_potential_rent":   80000.0,
		"vacancy_loss":           2000.0,
		"other_income":           3950.0,
		"effective_gross_income": 70000.0,
	}
	record, audit := validateRaw(t, raw, nil)

	assert.InDelta(t, 81950.0, record.Fields[domain.FieldEffectiveGrossIncome], 0.01)
	assert.NotEmpty(t, warnings(audit))
}

func TestValidateFlagsSuspiciousAllZero(t *testing.T) {
	_, audit := validateRaw(t, map[string]interface{}{}, domain.ConfidenceMap{})

	w := warnings(audit)
	require.NotEmpty(t, w)
	assert.Contains(t, w[len(w)-1], "all headline metrics are zero")
}

func TestCoerceAmount(t *testing.T) {
	assert.Equal(t, 1234.5, coerceAmount("$1,234.50"))
	assert.Equal(t, -500.0, coerceAmount("(500)"))
	assert.Equal(t, 42.0, coerceAmount(42.0))
	assert.Equal(t, 0.0, coerceAmount(nil))
	assert.Equal(t, 0.0, coerceAmount([]string{"nope"}))
	assert.Equal(t, 0.0, coerceAmount("n/a"))
}
