package models

// LoanType discriminates which loan product a request is for and which
// variant's fields apply.
type LoanType string

const (
	LoanTypeCar       LoanType = "car"
	LoanTypeBike      LoanType = "bike"
	LoanTypeHome      LoanType = "home"
	LoanTypeEducation LoanType = "education"
	LoanTypePersonal  LoanType = "personal"
	LoanTypeGeneric   LoanType = "generic"
)

// LoanTypes lists every valid discriminator value.
var LoanTypes = []LoanType{
	LoanTypeCar, LoanTypeBike, LoanTypeHome,
	LoanTypeEducation, LoanTypePersonal, LoanTypeGeneric,
}

// Vehicle condition values.
const (
	VehicleNew  = "new"
	VehicleUsed = "used"
)

// Accepted values for the education variant fields.
var (
	CourseTypes      = []string{"Engineering", "Medical", "MBA", "Law", "Arts", "Science"}
	InstitutionTiers = []string{"Tier-1", "Tier-2", "Tier-3"}
	StudyLocations   = []string{"India", "Abroad"}
)

// LoanVariant is the tagged union of loan-type-specific field sets.
// Exactly one variant accompanies a request, selected by the LoanType
// discriminator; personal and generic loans carry none.
type LoanVariant interface {
	loanVariant()
}

// VehicleDetails holds the car/bike variant fields.
type VehicleDetails struct {
	Condition   string `json:"condition"` // "new" | "used"
	Price       string `json:"price"`
	AgeYears    string `json:"ageYears"` // only meaningful for used vehicles
	DownPayment string `json:"downPayment"`
}

func (VehicleDetails) loanVariant() {}

// PropertyDetails holds the home-loan variant fields.
type PropertyDetails struct {
	PropertyType string `json:"propertyType"`
	Value        string `json:"value"`
	DownPayment  string `json:"downPayment"`
}

func (PropertyDetails) loanVariant() {}

// EducationDetails holds the education-loan variant fields.
type EducationDetails struct {
	CourseType      string `json:"courseType"`
	InstitutionTier string `json:"institutionTier"`
	StudyLocation   string `json:"studyLocation"`
	DurationYears   string `json:"durationYears"`
}

func (EducationDetails) loanVariant() {}

// LoanRequest is the raw form state for the loan itself. Amount, tenure
// and the optional custom rate are text for the same reason the profile
// fields are.
type LoanRequest struct {
	Type         LoanType    `json:"type"`
	Amount       string      `json:"amount"`
	TenureYears  string      `json:"tenureYears"`
	InterestRate string      `json:"interestRate,omitempty"` // blank = service default
	Variant      LoanVariant `json:"-"`

	// Variant snapshots for serialization; only the one matching Type is
	// populated. Callers should go through Variant.
	Vehicle   *VehicleDetails   `json:"vehicle,omitempty"`
	Property  *PropertyDetails  `json:"property,omitempty"`
	Education *EducationDetails `json:"education,omitempty"`
}

// NormalizeVariant rebuilds the Variant union from the serialized
// pointers after a JSON round trip, dropping any snapshot that does not
// match the discriminator.
func (r *LoanRequest) NormalizeVariant() {
	switch r.Type {
	case LoanTypeCar, LoanTypeBike:
		r.Property, r.Education = nil, nil
		if r.Vehicle != nil {
			r.Variant = *r.Vehicle
		}
	case LoanTypeHome:
		r.Vehicle, r.Education = nil, nil
		if r.Property != nil {
			r.Variant = *r.Property
		}
	case LoanTypeEducation:
		r.Vehicle, r.Property = nil, nil
		if r.Education != nil {
			r.Variant = *r.Education
		}
	default:
		r.Vehicle, r.Property, r.Education = nil, nil, nil
		r.Variant = nil
	}
}

// SetVariant stores v as both the union value and the matching
// serialization snapshot.
func (r *LoanRequest) SetVariant(v LoanVariant) {
	r.Variant = v
	r.Vehicle, r.Property, r.Education = nil, nil, nil
	switch d := v.(type) {
	case VehicleDetails:
		r.Vehicle = &d
	case PropertyDetails:
		r.Property = &d
	case EducationDetails:
		r.Education = &d
	}
}
