// Package payload maps validated form state onto the prediction
// service's request contract. It assumes input has already passed the
// validation engine and re-checks nothing.
package payload

import (
	"loanform/internal/models"
	"loanform/pkg/catalog"
)

// PredictRequest is the exact JSON body POST /predict expects. Variant
// fields are pointers so that fields belonging to other loan types are
// absent from the wire instead of null; the service rejects unexpected
// keys.
type PredictRequest struct {
	LoanType            string `json:"loan_type"`
	Name                string `json:"name,omitempty"`
	Age                 int    `json:"age"`
	Gender              string `json:"gender,omitempty"`
	MaritalStatus       string `json:"marital_status"`
	Dependents          int    `json:"dependents"`
	Education           string `json:"education"`
	EmploymentType      string `json:"employment_type"`
	YearsOfExperience   int    `json:"years_of_experience"`
	PropertyArea        string `json:"property_area"`
	MonthlyIncome       int    `json:"monthly_income"`
	CoapplicantIncome   int    `json:"coapplicant_income"`
	CreditScore         int    `json:"credit_score"`
	ExistingEMIs        int    `json:"existing_emis"`
	ExistingLoansCount  int    `json:"existing_loans_count"`
	LoanAmountRequested int    `json:"loan_amount_requested"`
	LoanTenureMonths    int    `json:"loan_tenure_months"`

	PropertyValue   *int    `json:"property_value,omitempty"`
	VehiclePrice    *int    `json:"vehicle_price,omitempty"`
	VehicleAgeYears *int    `json:"vehicle_age_years,omitempty"`
	CourseType      *string `json:"course_type,omitempty"`
	InstitutionTier *string `json:"institution_tier,omitempty"`

	// Only present when the user supplied a custom rate; the service
	// applies its own default otherwise.
	InterestRate *float64 `json:"interest_rate,omitempty"`
}

// Mapper converts internal form state to PredictRequest values.
type Mapper struct {
	catalog *catalog.LoanCatalog
}

// New builds a Mapper over the given catalog (nil means default).
func New(cat *catalog.LoanCatalog) *Mapper {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Mapper{catalog: cat}
}

// Build maps one validated profile + request to the outbound contract.
func (m *Mapper) Build(p models.ApplicantProfile, r models.LoanRequest) PredictRequest {
	req := PredictRequest{
		LoanType:            m.externalLoanType(r.Type),
		Name:                p.Name,
		Age:                 models.ParseCount(p.Age),
		Gender:              p.Gender,
		MaritalStatus:       p.MaritalStatus,
		Dependents:          models.ParseCount(p.Dependents),
		Education:           p.Education,
		EmploymentType:      p.EmploymentType,
		YearsOfExperience:   models.ParseCount(p.YearsOfExperience),
		PropertyArea:        p.PropertyArea,
		MonthlyIncome:       models.ParseCount(p.MonthlyIncome),
		CoapplicantIncome:   models.ParseCount(p.CoapplicantIncome),
		CreditScore:         models.ParseCount(p.CreditScore),
		ExistingEMIs:        models.ParseCount(p.ExistingEMIs),
		ExistingLoansCount:  models.ParseCount(p.ExistingLoansCount),
		LoanAmountRequested: models.ParseCount(r.Amount),
		LoanTenureMonths:    models.ParseCount(r.TenureYears) * 12,
	}

	if rate := r.InterestRate; rate != "" {
		v := models.ParseAmount(rate)
		req.InterestRate = &v
	}

	m.applyVariant(&req, r)
	return req
}

// applyVariant copies exactly the variant selected by the discriminator
// onto the wire shape. The switch mirrors the validation engine's so the
// two can never disagree about which fields a loan type carries.
func (m *Mapper) applyVariant(req *PredictRequest, r models.LoanRequest) {
	switch r.Type {
	case models.LoanTypeCar, models.LoanTypeBike:
		v, ok := r.Variant.(models.VehicleDetails)
		if !ok {
			return
		}
		req.VehiclePrice = intPtr(models.ParseCount(v.Price))
		// New vehicles go out as age 0; the used-vehicle age is already
		// range-checked upstream.
		age := 0
		if v.Condition == models.VehicleUsed {
			age = models.ParseCount(v.AgeYears)
		}
		req.VehicleAgeYears = intPtr(age)
	case models.LoanTypeHome:
		v, ok := r.Variant.(models.PropertyDetails)
		if !ok {
			return
		}
		req.PropertyValue = intPtr(models.ParseCount(v.Value))
	case models.LoanTypeEducation:
		v, ok := r.Variant.(models.EducationDetails)
		if !ok {
			return
		}
		req.CourseType = strPtr(v.CourseType)
		req.InstitutionTier = strPtr(v.InstitutionTier)
	case models.LoanTypePersonal, models.LoanTypeGeneric:
		// No variant fields on the wire.
	}
}

// externalLoanType translates the internal discriminator to the service
// identifier. personal and generic deliberately collapse: the service
// does not distinguish them.
func (m *Mapper) externalLoanType(t models.LoanType) string {
	if p, ok := m.catalog.Product(string(t)); ok {
		return p.ExternalID
	}
	return "personalLoan"
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
