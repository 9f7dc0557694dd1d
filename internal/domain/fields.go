package domain

// Canonical metric field names. Every extraction result carries the full set;
// values the source document never mentions default to zero.
const (
	FieldGrossPotentialRent    = "gross_potential_rent"
	FieldVacancyLoss           = "vacancy_loss"
	FieldConcessions           = "concessions"
	FieldBadDebt               = "bad_debt"
	FieldOtherIncome           = "other_income"
	FieldEffectiveGrossIncome  = "effective_gross_income"
	FieldOperatingExpenses     = "operating_expenses"
	FieldPropertyTaxes         = "property_taxes"
	FieldInsurance             = "insurance"
	FieldRepairsMaintenance    = "repairs_maintenance"
	FieldUtilities             = "utilities"
	FieldManagementFees        = "management_fees"
	FieldParkingIncome         = "parking_income"
	FieldLaundryIncome         = "laundry_income"
	FieldLateFees              = "late_fees"
	FieldPetFees               = "pet_fees"
	FieldApplicationFees       = "application_fees"
	FieldStorageFees           = "storage_fees"
	FieldAmenityFees           = "amenity_fees"
	FieldUtilityReimbursements = "utility_reimbursements"
	FieldCleaningFees          = "cleaning_fees"
	FieldCancellationFees      = "cancellation_fees"
	FieldMiscellaneousIncome   = "miscellaneous_income"
	FieldNetOperatingIncome    = "net_operating_income"
)

// CanonicalFields lists every metric the schema recognizes, in report order.
var CanonicalFields = []string{
	FieldGrossPotentialRent,
	FieldVacancyLoss,
	FieldConcessions,
	FieldBadDebt,
	FieldOtherIncome,
	FieldEffectiveGrossIncome,
	FieldOperatingExpenses,
	FieldPropertyTaxes,
	FieldInsurance,
	FieldRepairsMaintenance,
	FieldUtilities,
	FieldManagementFees,
	FieldParkingIncome,
	FieldLaundryIncome,
	FieldLateFees,
	FieldPetFees,
	FieldApplicationFees,
	FieldStorageFees,
	FieldAmenityFees,
	FieldUtilityReimbursements,
	FieldCleaningFees,
	FieldCancellationFees,
	FieldMiscellaneousIncome,
	FieldNetOperatingIncome,
}

var canonicalFieldSet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(CanonicalFields))
	for _, f := range CanonicalFields {
		s[f] = struct{}{}
	}
	return s
}()

// IsCanonicalField reports whether name belongs to the metric schema.
func IsCanonicalField(name string) bool {
	_, ok := canonicalFieldSet[name]
	return ok
}

// FinancialVocabulary holds the terms used to recognize financial content in
// headers, rows and free text.
var FinancialVocabulary = []string{
	"rent", "income", "revenue", "expense", "tax", "insurance",
	"maintenance", "utilities", "management", "parking", "laundry",
	"fee", "noi", "egi", "operating", "total",
}
