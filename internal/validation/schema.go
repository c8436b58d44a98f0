// Package validation turns raw form state into a field-keyed error map.
// Rules live in declarative tables here; engine.go applies them.
package validation

import (
	"loanform/internal/models"
)

// GlobalField keys errors that belong to no single input.
const GlobalField = "_global"

// ErrorMap maps a field name to one human-readable message. Empty means
// the form is valid. A fresh map is built on every pass.
type ErrorMap map[string]string

// Valid reports whether the map carries no errors.
func (m ErrorMap) Valid() bool { return len(m) == 0 }

// Sanity ceilings that are not loan-type policy. Income bounds follow
// the prediction service's accepted range; the EMI ceiling only guards
// against fat-fingered input.
const (
	MinAge             = 18
	MaxAge             = 70
	MaxExperienceYears = 50
	MinMonthlyIncome   = 15_000
	MaxMonthlyIncome   = 10_000_000
	MinCreditScore     = 300
	MaxCreditScore     = 900
	MaxExistingEMIs    = 10_000_000
	MaxExistingLoans   = 20
	MaxDependents      = 10
	MinInterestRate    = 2.0
	MaxInterestRate    = 30.0
	MinVehicleAge      = 1
	MaxVehicleAge      = 20
	MinCourseYears     = 1
	MaxCourseYears     = 10
)

// boundsRule is one numeric field constraint: required/optional plus an
// inclusive range, with the display label used in messages.
type boundsRule struct {
	field    string
	label    string
	raw      func(models.ApplicantProfile) string
	required bool
	min, max float64
}

// coreBoundsRules apply to every submission regardless of loan type.
// Cross-field constraints (experience vs age) live in engine.go since
// they cannot be expressed as per-field bounds.
var coreBoundsRules = []boundsRule{
	{
		field: "age", label: "Age",
		raw:      func(p models.ApplicantProfile) string { return p.Age },
		required: true, min: MinAge, max: MaxAge,
	},
	{
		field: "yearsOfExperience", label: "Years of experience",
		raw:      func(p models.ApplicantProfile) string { return p.YearsOfExperience },
		required: true, min: 0, max: MaxExperienceYears,
	},
	{
		field: "monthlyIncome", label: "Monthly income",
		raw:      func(p models.ApplicantProfile) string { return p.MonthlyIncome },
		required: true, min: MinMonthlyIncome, max: MaxMonthlyIncome,
	},
	{
		field: "coapplicantIncome", label: "Co-applicant income",
		raw: func(p models.ApplicantProfile) string { return p.CoapplicantIncome },
		min: 0, max: MaxMonthlyIncome,
	},
	{
		field: "creditScore", label: "Credit score",
		raw:      func(p models.ApplicantProfile) string { return p.CreditScore },
		required: true, min: MinCreditScore, max: MaxCreditScore,
	},
	{
		field: "existingEmis", label: "Existing EMIs",
		raw: func(p models.ApplicantProfile) string { return p.ExistingEMIs },
		min: 0, max: MaxExistingEMIs,
	},
	{
		field: "existingLoansCount", label: "Existing loans count",
		raw: func(p models.ApplicantProfile) string { return p.ExistingLoansCount },
		min: 0, max: MaxExistingLoans,
	},
	{
		field: "dependents", label: "Number of dependents",
		raw: func(p models.ApplicantProfile) string { return p.Dependents },
		min: 0, max: MaxDependents,
	},
}

// choiceRule is one required-selection constraint.
type choiceRule struct {
	field    string
	label    string
	raw      func(models.ApplicantProfile) string
	accepted []string
	required bool
}

var coreChoiceRules = []choiceRule{
	{
		field: "employmentType", label: "Employment type",
		raw:      func(p models.ApplicantProfile) string { return p.EmploymentType },
		accepted: models.EmploymentTypes, required: true,
	},
	{
		field: "maritalStatus", label: "Marital status",
		raw:      func(p models.ApplicantProfile) string { return p.MaritalStatus },
		accepted: models.MaritalStatuses, required: true,
	},
	{
		field: "education", label: "Education",
		raw:      func(p models.ApplicantProfile) string { return p.Education },
		accepted: models.Educations, required: true,
	},
	{
		field: "propertyArea", label: "Residential area",
		raw:      func(p models.ApplicantProfile) string { return p.PropertyArea },
		accepted: models.PropertyAreas, required: true,
	},
	{
		field: "gender", label: "Gender",
		raw:      func(p models.ApplicantProfile) string { return p.Gender },
		accepted: models.Genders,
	},
}
