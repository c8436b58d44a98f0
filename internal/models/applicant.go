package models

// Accepted values for the categorical applicant fields. These mirror the
// prediction service's vocabulary exactly; anything else is rejected
// before submission.
var (
	Genders         = []string{"Male", "Female"}
	MaritalStatuses = []string{"Single", "Married", "Divorced"}
	Educations      = []string{"Graduate", "Post-Graduate", "Undergraduate", "Diploma"}
	EmploymentTypes = []string{"Salaried", "Self-Employed", "Business", "Government", "Freelancer"}
	PropertyAreas   = []string{"Urban", "Semi-Urban", "Rural"}
)

// ApplicantProfile is the raw form state for one applicant. Every numeric
// field is kept as the text the user typed so the form can redisplay it
// verbatim; ParseAmount is the only path from these strings to numbers.
type ApplicantProfile struct {
	Name               string `json:"name,omitempty"`
	Age                string `json:"age"`
	Gender             string `json:"gender"`
	MaritalStatus      string `json:"maritalStatus"`
	Dependents         string `json:"dependents"`
	Education          string `json:"education"`
	EmploymentType     string `json:"employmentType"`
	YearsOfExperience  string `json:"yearsOfExperience"`
	PropertyArea       string `json:"propertyArea"`
	MonthlyIncome      string `json:"monthlyIncome"`
	CoapplicantIncome  string `json:"coapplicantIncome"`
	CreditScore        string `json:"creditScore"`
	ExistingEMIs       string `json:"existingEmis"`
	ExistingLoansCount string `json:"existingLoansCount"`
}

// IsOneOf reports whether value appears in the accepted list.
func IsOneOf(value string, accepted []string) bool {
	for _, v := range accepted {
		if v == value {
			return true
		}
	}
	return false
}
