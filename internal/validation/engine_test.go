package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanform/internal/models"
)

// ==========================
// Test Fixtures
// ==========================

func validProfile() models.ApplicantProfile {
	return models.ApplicantProfile{
		Name:               "Priya Sharma",
		Age:                "30",
		Gender:             "Female",
		MaritalStatus:      "Married",
		Dependents:         "1",
		Education:          "Graduate",
		EmploymentType:     "Salaried",
		YearsOfExperience:  "8",
		PropertyArea:       "Urban",
		MonthlyIncome:      "50,000",
		CoapplicantIncome:  "0",
		CreditScore:        "700",
		ExistingEMIs:       "0",
		ExistingLoansCount: "0",
	}
}

func personalLoanRequest() models.LoanRequest {
	return models.LoanRequest{
		Type:        models.LoanTypePersonal,
		Amount:      "500000",
		TenureYears: "5",
	}
}

// ==========================
// Core Field Rules
// ==========================

func TestValidate_ValidPersonalLoan(t *testing.T) {
	errs := New(nil).Validate(validProfile(), personalLoanRequest())
	assert.True(t, errs.Valid(), "expected no errors, got %v", errs)
}

func TestValidate_MissingAge(t *testing.T) {
	p := validProfile()
	p.Age = ""

	errs := New(nil).Validate(p, personalLoanRequest())

	require.Contains(t, errs, "age")
	assert.Equal(t, "Age is required", errs["age"])
	// The missing age must not mask or invent other core-field errors.
	assert.Len(t, errs, 1)
}

func TestValidate_CoreBounds(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.ApplicantProfile)
		wantField string
	}{
		{"age below minimum", func(p *models.ApplicantProfile) { p.Age = "17" }, "age"},
		{"age above maximum", func(p *models.ApplicantProfile) { p.Age = "71" }, "age"},
		{"income below floor", func(p *models.ApplicantProfile) { p.MonthlyIncome = "14999" }, "monthlyIncome"},
		{"credit score low", func(p *models.ApplicantProfile) { p.CreditScore = "299" }, "creditScore"},
		{"credit score high", func(p *models.ApplicantProfile) { p.CreditScore = "901" }, "creditScore"},
		{"negative experience", func(p *models.ApplicantProfile) { p.YearsOfExperience = "-1" }, "yearsOfExperience"},
		{"too many dependents", func(p *models.ApplicantProfile) { p.Dependents = "11" }, "dependents"},
		{"missing employment type", func(p *models.ApplicantProfile) { p.EmploymentType = "" }, "employmentType"},
		{"missing marital status", func(p *models.ApplicantProfile) { p.MaritalStatus = "" }, "maritalStatus"},
		{"missing education", func(p *models.ApplicantProfile) { p.Education = "" }, "education"},
		{"missing residential area", func(p *models.ApplicantProfile) { p.PropertyArea = "" }, "propertyArea"},
		{"unknown employment value", func(p *models.ApplicantProfile) { p.EmploymentType = "Astronaut" }, "employmentType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(&p)
			errs := New(nil).Validate(p, personalLoanRequest())
			assert.Contains(t, errs, tt.wantField)
		})
	}
}

func TestValidate_ExperienceVsAge(t *testing.T) {
	p := validProfile()
	p.Age = "25"
	p.YearsOfExperience = "12" // 25 - 16 = 9 max

	errs := New(nil).Validate(p, personalLoanRequest())

	require.Contains(t, errs, "yearsOfExperience")
	assert.Contains(t, errs["yearsOfExperience"], "age minus 16")
}

func TestValidate_ExperienceCrossCheckSkippedWhenAgeInvalid(t *testing.T) {
	p := validProfile()
	p.Age = "17"
	p.YearsOfExperience = "12"

	errs := New(nil).Validate(p, personalLoanRequest())

	// The range error on age stands alone; the cross-field rule does not
	// pile a second message onto yearsOfExperience.
	assert.Contains(t, errs, "age")
	assert.NotContains(t, errs, "yearsOfExperience")
}

func TestValidate_RequiredBeatsRange(t *testing.T) {
	p := validProfile()
	p.MonthlyIncome = "   "

	errs := New(nil).Validate(p, personalLoanRequest())

	require.Contains(t, errs, "monthlyIncome")
	assert.Equal(t, "Monthly income is required", errs["monthlyIncome"])
}

func TestValidate_ThousandsSeparatorsAccepted(t *testing.T) {
	p := validProfile()
	p.MonthlyIncome = "5,00,000"

	errs := New(nil).Validate(p, personalLoanRequest())
	assert.True(t, errs.Valid(), "got %v", errs)
}

// ==========================
// Loan Request Rules
// ==========================

func TestValidate_LoanRequest(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.LoanRequest)
		wantField string
	}{
		{"missing amount", func(r *models.LoanRequest) { r.Amount = "" }, "loanAmount"},
		{"amount below product minimum", func(r *models.LoanRequest) { r.Amount = "5000" }, "loanAmount"},
		{"amount above product maximum", func(r *models.LoanRequest) { r.Amount = "2500000" }, "loanAmount"},
		{"missing tenure", func(r *models.LoanRequest) { r.TenureYears = "" }, "loanTenure"},
		{"tenure beyond product max", func(r *models.LoanRequest) { r.TenureYears = "8" }, "loanTenure"},
		{"rate below floor", func(r *models.LoanRequest) { r.InterestRate = "1.5" }, "interestRate"},
		{"rate above ceiling", func(r *models.LoanRequest) { r.InterestRate = "31" }, "interestRate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := personalLoanRequest()
			tt.mutate(&r)
			errs := New(nil).Validate(validProfile(), r)
			assert.Contains(t, errs, tt.wantField)
		})
	}
}

func TestValidate_BlankInterestRateIsFine(t *testing.T) {
	r := personalLoanRequest()
	r.InterestRate = ""
	errs := New(nil).Validate(validProfile(), r)
	assert.NotContains(t, errs, "interestRate")
}

// ==========================
// Variant Rules
// ==========================

func carRequest(v models.VehicleDetails) models.LoanRequest {
	r := models.LoanRequest{
		Type:        models.LoanTypeCar,
		Amount:      "800000",
		TenureYears: "5",
	}
	r.SetVariant(v)
	return r
}

func TestValidate_CarLoan_DownPaymentThreshold(t *testing.T) {
	r := carRequest(models.VehicleDetails{
		Condition:   "new",
		Price:       "1000000",
		DownPayment: "10000",
	})

	errs := New(nil).Validate(validProfile(), r)

	require.Contains(t, errs, "downPayment")
	assert.Contains(t, errs["downPayment"], "10%")
	assert.Contains(t, errs["downPayment"], "100000")
}

func TestValidate_CarLoan_Valid(t *testing.T) {
	r := carRequest(models.VehicleDetails{
		Condition:   "new",
		Price:       "1000000",
		DownPayment: "100000",
	})
	errs := New(nil).Validate(validProfile(), r)
	assert.True(t, errs.Valid(), "got %v", errs)
}

func TestValidate_UsedCar_AgeRequired(t *testing.T) {
	r := carRequest(models.VehicleDetails{
		Condition:   "used",
		Price:       "600000",
		DownPayment: "60000",
	})

	errs := New(nil).Validate(validProfile(), r)
	assert.Contains(t, errs, "vehicleAge")
}

func TestValidate_NewCar_AgeIgnored(t *testing.T) {
	r := carRequest(models.VehicleDetails{
		Condition:   "new",
		Price:       "600000",
		AgeYears:    "25", // out of range, but irrelevant for a new vehicle
		DownPayment: "60000",
	})

	errs := New(nil).Validate(validProfile(), r)
	assert.NotContains(t, errs, "vehicleAge")
}

func TestValidate_UsedCar_AgeBounds(t *testing.T) {
	r := carRequest(models.VehicleDetails{
		Condition:   "used",
		Price:       "600000",
		AgeYears:    "21",
		DownPayment: "60000",
	})

	errs := New(nil).Validate(validProfile(), r)
	assert.Contains(t, errs, "vehicleAge")
}

func TestValidate_HomeLoan_DownPaymentThreshold(t *testing.T) {
	r := models.LoanRequest{
		Type:        models.LoanTypeHome,
		Amount:      "4000000",
		TenureYears: "20",
	}
	r.SetVariant(models.PropertyDetails{
		PropertyType: "Apartment",
		Value:        "5000000",
		DownPayment:  "50000",
	})

	errs := New(nil).Validate(validProfile(), r)

	require.Contains(t, errs, "downPayment")
	assert.Contains(t, errs["downPayment"], "20%")
	assert.Contains(t, errs["downPayment"], "1000000")
}

func TestValidate_EducationLoan(t *testing.T) {
	r := models.LoanRequest{
		Type:        models.LoanTypeEducation,
		Amount:      "1500000",
		TenureYears: "10",
	}
	r.SetVariant(models.EducationDetails{
		CourseType:      "Engineering",
		InstitutionTier: "Tier-1",
		StudyLocation:   "India",
		DurationYears:   "4",
	})

	errs := New(nil).Validate(validProfile(), r)
	assert.True(t, errs.Valid(), "got %v", errs)

	r.SetVariant(models.EducationDetails{
		CourseType:      "",
		InstitutionTier: "Tier-4",
		StudyLocation:   "",
		DurationYears:   "11",
	})
	errs = New(nil).Validate(validProfile(), r)
	assert.Contains(t, errs, "courseType")
	assert.Contains(t, errs, "institutionTier")
	assert.Contains(t, errs, "studyLocation")
	assert.Contains(t, errs, "courseDuration")
}

func TestValidate_VariantIsolation(t *testing.T) {
	// A personal loan submission must never trip vehicle or property
	// rules, even with stale variant data attached.
	r := personalLoanRequest()
	r.Vehicle = &models.VehicleDetails{Condition: "used", Price: "0"}
	r.NormalizeVariant()

	errs := New(nil).Validate(validProfile(), r)
	assert.True(t, errs.Valid(), "got %v", errs)
}

func TestValidate_MissingVariant(t *testing.T) {
	r := models.LoanRequest{
		Type:        models.LoanTypeHome,
		Amount:      "4000000",
		TenureYears: "20",
	}

	errs := New(nil).Validate(validProfile(), r)
	assert.Contains(t, errs, "propertyType")
}

// ==========================
// Idempotence
// ==========================

func TestValidate_Idempotent(t *testing.T) {
	p := validProfile()
	p.Age = ""
	p.CreditScore = "200"
	r := personalLoanRequest()

	eng := New(nil)
	first := eng.Validate(p, r)
	second := eng.Validate(p, r)

	assert.Equal(t, first, second)
}
