package validation

import (
	"fmt"
	"strings"

	"loanform/internal/finance"
	"loanform/internal/models"
	"loanform/pkg/catalog"
)

// Engine validates a complete applicant profile + loan request against
// the rule tables in schema.go and the loan catalog's per-type policy.
// It holds no mutable state: validating the same input twice yields the
// same ErrorMap.
type Engine struct {
	catalog *catalog.LoanCatalog
}

// New builds an Engine over the given catalog (nil means the compiled-in
// default).
func New(cat *catalog.LoanCatalog) *Engine {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Engine{catalog: cat}
}

// Validate returns the field->message error map for one submission.
// Empty map means the form may be mapped and sent. Precedence: a
// required-field error always wins over a range error on the same field.
func (e *Engine) Validate(p models.ApplicantProfile, r models.LoanRequest) ErrorMap {
	errs := make(ErrorMap)

	for _, rule := range coreBoundsRules {
		e.applyBounds(errs, rule, rule.raw(p))
	}
	for _, rule := range coreChoiceRules {
		e.applyChoice(errs, rule, rule.raw(p))
	}
	e.validateCrossFields(errs, p)
	e.validateLoanRequest(errs, r)
	e.validateVariant(errs, r)

	return errs
}

func (e *Engine) applyBounds(errs ErrorMap, rule boundsRule, raw string) {
	if strings.TrimSpace(raw) == "" {
		if rule.required {
			errs[rule.field] = fmt.Sprintf("%s is required", rule.label)
		}
		return
	}
	v := models.ParseAmount(raw)
	if v < rule.min || v > rule.max {
		errs[rule.field] = fmt.Sprintf("%s must be between %s and %s",
			rule.label, formatBound(rule.min), formatBound(rule.max))
	}
}

func (e *Engine) applyChoice(errs ErrorMap, rule choiceRule, raw string) {
	if strings.TrimSpace(raw) == "" {
		if rule.required {
			errs[rule.field] = fmt.Sprintf("%s is required", rule.label)
		}
		return
	}
	if !models.IsOneOf(raw, rule.accepted) {
		errs[rule.field] = fmt.Sprintf("%s must be one of: %s",
			rule.label, strings.Join(rule.accepted, ", "))
	}
}

// validateCrossFields applies constraints spanning more than one profile
// field. Each check only fires when the fields involved are themselves
// clean, so a range error is never stacked on top of a required error.
func (e *Engine) validateCrossFields(errs ErrorMap, p models.ApplicantProfile) {
	if errs["age"] != "" || errs["yearsOfExperience"] != "" {
		return
	}
	if strings.TrimSpace(p.Age) == "" || strings.TrimSpace(p.YearsOfExperience) == "" {
		return
	}
	age := models.ParseAmount(p.Age)
	exp := models.ParseAmount(p.YearsOfExperience)
	if exp > age-16 {
		errs["yearsOfExperience"] = fmt.Sprintf(
			"Years of experience cannot exceed age minus 16 (max %d for age %d)",
			int(age)-16, int(age))
	}
}

func (e *Engine) validateLoanRequest(errs ErrorMap, r models.LoanRequest) {
	product, ok := e.catalog.Product(string(r.Type))
	if !ok {
		errs[GlobalField] = fmt.Sprintf("Unknown loan type %q", r.Type)
		return
	}

	if strings.TrimSpace(r.Amount) == "" {
		errs["loanAmount"] = "Loan amount is required"
	} else {
		amount := models.ParseAmount(r.Amount)
		if amount < product.MinAmount || amount > product.MaxAmount {
			errs["loanAmount"] = fmt.Sprintf("Loan amount for a %s must be between %s and %s",
				strings.ToLower(product.DisplayName), formatBound(product.MinAmount), formatBound(product.MaxAmount))
		}
	}

	if strings.TrimSpace(r.TenureYears) == "" {
		errs["loanTenure"] = "Loan tenure is required"
	} else {
		tenure := models.ParseCount(r.TenureYears)
		if tenure < 1 || tenure > product.MaxTenureYears {
			errs["loanTenure"] = fmt.Sprintf("Loan tenure must be between 1 and %d years",
				product.MaxTenureYears)
		}
	}

	// Custom rate is optional; only bound-checked when supplied.
	if strings.TrimSpace(r.InterestRate) != "" {
		rate := models.ParseAmount(r.InterestRate)
		if rate < MinInterestRate || rate > MaxInterestRate {
			errs["interestRate"] = fmt.Sprintf("Interest rate must be between %v%% and %v%%",
				MinInterestRate, MaxInterestRate)
		}
	}
}

// validateVariant applies the rules for exactly the variant selected by
// the discriminator. The switch is exhaustive over loan types so a new
// type cannot silently skip validation.
func (e *Engine) validateVariant(errs ErrorMap, r models.LoanRequest) {
	switch r.Type {
	case models.LoanTypeCar, models.LoanTypeBike:
		v, ok := r.Variant.(models.VehicleDetails)
		if !ok {
			errs["vehicleCondition"] = "Vehicle details are required"
			return
		}
		e.validateVehicle(errs, r.Type, v)
	case models.LoanTypeHome:
		v, ok := r.Variant.(models.PropertyDetails)
		if !ok {
			errs["propertyType"] = "Property details are required"
			return
		}
		e.validateProperty(errs, v)
	case models.LoanTypeEducation:
		v, ok := r.Variant.(models.EducationDetails)
		if !ok {
			errs["courseType"] = "Course details are required"
			return
		}
		e.validateEducation(errs, v)
	case models.LoanTypePersonal, models.LoanTypeGeneric:
		// No variant fields.
	default:
		errs[GlobalField] = fmt.Sprintf("Unknown loan type %q", r.Type)
	}
}

func (e *Engine) validateVehicle(errs ErrorMap, t models.LoanType, v models.VehicleDetails) {
	if strings.TrimSpace(v.Condition) == "" {
		errs["vehicleCondition"] = "Vehicle condition is required"
	} else if v.Condition != models.VehicleNew && v.Condition != models.VehicleUsed {
		errs["vehicleCondition"] = "Vehicle condition must be new or used"
	}

	price := models.ParseAmount(v.Price)
	if strings.TrimSpace(v.Price) == "" {
		errs["vehiclePrice"] = "Vehicle price is required"
	} else if price <= 0 {
		errs["vehiclePrice"] = "Vehicle price must be greater than 0"
	}

	// Vehicle age only exists for used vehicles.
	if v.Condition == models.VehicleUsed {
		if strings.TrimSpace(v.AgeYears) == "" {
			errs["vehicleAge"] = "Vehicle age is required for a used vehicle"
		} else {
			age := models.ParseCount(v.AgeYears)
			if age < MinVehicleAge || age > MaxVehicleAge {
				errs["vehicleAge"] = fmt.Sprintf("Vehicle age must be between %d and %d years",
					MinVehicleAge, MaxVehicleAge)
			}
		}
	}

	if errs["vehiclePrice"] == "" && price > 0 {
		minDown := finance.MinimumDownPayment(price, e.downPaymentRatio(t))
		if models.ParseAmount(v.DownPayment) < minDown {
			errs["downPayment"] = fmt.Sprintf(
				"Down payment must be at least 10%% of the vehicle price (minimum %s)",
				formatBound(minDown))
		}
	}
}

func (e *Engine) validateProperty(errs ErrorMap, v models.PropertyDetails) {
	if strings.TrimSpace(v.PropertyType) == "" {
		errs["propertyType"] = "Property type is required"
	}

	value := models.ParseAmount(v.Value)
	if strings.TrimSpace(v.Value) == "" {
		errs["propertyValue"] = "Property value is required"
	} else if value <= 0 {
		errs["propertyValue"] = "Property value must be greater than 0"
	}

	if errs["propertyValue"] == "" && value > 0 {
		minDown := finance.MinimumDownPayment(value, e.downPaymentRatio(models.LoanTypeHome))
		if models.ParseAmount(v.DownPayment) < minDown {
			errs["downPayment"] = fmt.Sprintf(
				"Down payment must be at least 20%% of the property value (minimum %s)",
				formatBound(minDown))
		}
	}
}

func (e *Engine) validateEducation(errs ErrorMap, v models.EducationDetails) {
	if strings.TrimSpace(v.CourseType) == "" {
		errs["courseType"] = "Course type is required"
	} else if !models.IsOneOf(v.CourseType, models.CourseTypes) {
		errs["courseType"] = fmt.Sprintf("Course type must be one of: %s",
			strings.Join(models.CourseTypes, ", "))
	}

	if strings.TrimSpace(v.InstitutionTier) == "" {
		errs["institutionTier"] = "Institution tier is required"
	} else if !models.IsOneOf(v.InstitutionTier, models.InstitutionTiers) {
		errs["institutionTier"] = fmt.Sprintf("Institution tier must be one of: %s",
			strings.Join(models.InstitutionTiers, ", "))
	}

	if strings.TrimSpace(v.StudyLocation) == "" {
		errs["studyLocation"] = "Study location is required"
	}

	if strings.TrimSpace(v.DurationYears) == "" {
		errs["courseDuration"] = "Course duration is required"
	} else {
		dur := models.ParseCount(v.DurationYears)
		if dur < MinCourseYears || dur > MaxCourseYears {
			errs["courseDuration"] = fmt.Sprintf("Course duration must be between %d and %d years",
				MinCourseYears, MaxCourseYears)
		}
	}
}

// downPaymentRatio reads the policy ratio from the catalog, falling back
// to the compiled-in defaults if the catalog omits it.
func (e *Engine) downPaymentRatio(t models.LoanType) float64 {
	if p, ok := e.catalog.Product(string(t)); ok && p.DownPaymentRatio > 0 {
		return p.DownPaymentRatio
	}
	if t == models.LoanTypeHome {
		return 0.20
	}
	return 0.10
}

// formatBound renders a numeric bound without trailing zeros.
func formatBound(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
