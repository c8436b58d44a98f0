package errors

import (
	"encoding/json"
	"regexp"
	"strings"

	"loanform/internal/validation"
)

// externalFieldNames translates the prediction service's snake_case
// field paths back to the form's field names. Paths missing from this
// table become global errors rather than being silently dropped.
var externalFieldNames = map[string]string{
	"age":                   "age",
	"gender":                "gender",
	"marital_status":        "maritalStatus",
	"dependents":            "dependents",
	"education":             "education",
	"employment_type":       "employmentType",
	"years_of_experience":   "yearsOfExperience",
	"property_area":         "propertyArea",
	"monthly_income":        "monthlyIncome",
	"coapplicant_income":    "coapplicantIncome",
	"credit_score":          "creditScore",
	"existing_emis":         "existingEmis",
	"existing_loans_count":  "existingLoansCount",
	"loan_amount_requested": "loanAmount",
	"loan_tenure_months":    "loanTenure",
	"interest_rate":         "interestRate",
	"property_value":        "propertyValue",
	"vehicle_price":         "vehiclePrice",
	"vehicle_age_years":     "vehicleAge",
	"course_type":           "courseType",
	"institution_tier":      "institutionTier",
}

// The free-text phrasings the service is known to emit. Anything else
// stays global.
var (
	requiredPattern = regexp.MustCompile(`'([a-z_]+)' is required`)
	boundsPattern   = regexp.MustCompile(`'([a-z_]+)' must be`)
	missingPattern  = regexp.MustCompile(`Missing required field: '([a-z_]+)'`)
)

// remoteErrorBody covers the three error envelopes the service emits:
// a structured validation array, a custom object with an error list, or
// a bare string, all carried under FastAPI's "detail" key.
type remoteErrorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type structuredValidationError struct {
	Loc []json.RawMessage `json:"loc"`
	Msg string            `json:"msg"`
}

type customErrorEnvelope struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// NormalizeRemote maps an arbitrary remote error payload onto the same
// ErrorMap shape the validation engine produces, so the rendering layer
// has exactly one error-display path. Every error lands in exactly one
// bucket: a known field, or the global key.
func NormalizeRemote(body []byte) validation.ErrorMap {
	errs := make(validation.ErrorMap)

	var envelope remoteErrorBody
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		addGlobal(errs, strings.TrimSpace(string(body)))
		return errs
	}

	// Shape 1: [{"loc": [...], "msg": "..."}, ...]
	var structured []structuredValidationError
	if err := json.Unmarshal(envelope.Detail, &structured); err == nil && len(structured) > 0 {
		for _, item := range structured {
			addFieldOrGlobal(errs, lastPathElement(item.Loc), item.Msg)
		}
		return errs
	}

	// Shape 2: {"message": "...", "errors": ["...", ...]}
	var custom customErrorEnvelope
	if err := json.Unmarshal(envelope.Detail, &custom); err == nil && (custom.Message != "" || len(custom.Errors) > 0) {
		for _, text := range custom.Errors {
			addFieldOrGlobal(errs, matchFieldInText(text), text)
		}
		if len(custom.Errors) == 0 {
			addGlobal(errs, custom.Message)
		}
		return errs
	}

	// Shape 3: "plain message"
	var plain string
	if err := json.Unmarshal(envelope.Detail, &plain); err == nil {
		addGlobal(errs, plain)
		return errs
	}

	addGlobal(errs, strings.TrimSpace(string(envelope.Detail)))
	return errs
}

// lastPathElement extracts the field segment from a FastAPI loc array
// like ["body", "monthly_income"].
func lastPathElement(loc []json.RawMessage) string {
	for i := len(loc) - 1; i >= 0; i-- {
		var s string
		if err := json.Unmarshal(loc[i], &s); err == nil && s != "body" {
			return s
		}
	}
	return ""
}

// matchFieldInText recovers a field name from a known free-text
// phrasing, or returns "" when the text matches none of them.
func matchFieldInText(text string) string {
	for _, pattern := range []*regexp.Regexp{requiredPattern, boundsPattern, missingPattern} {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

func addFieldOrGlobal(errs validation.ErrorMap, externalField, message string) {
	if message == "" {
		return
	}
	if internal, ok := externalFieldNames[externalField]; ok {
		if errs[internal] == "" {
			errs[internal] = message
		}
		return
	}
	addGlobal(errs, message)
}

func addGlobal(errs validation.ErrorMap, message string) {
	if message == "" {
		message = "The service rejected the request"
	}
	if existing := errs[validation.GlobalField]; existing != "" {
		errs[validation.GlobalField] = existing + "; " + message
		return
	}
	errs[validation.GlobalField] = message
}
