// pkg/catalog/schema.go
package catalog

// LoanCatalog is the versioned policy document describing every loan
// product the form can submit.
type LoanCatalog struct {
	Version     string        `json:"version"`
	LastUpdated string        `json:"lastUpdated"`
	Products    []LoanProduct `json:"products"`
}

// LoanProduct holds the per-loan-type policy knobs: default pricing,
// amount bounds, and the identifier the prediction service expects.
type LoanProduct struct {
	Type             string  `json:"type"`
	DisplayName      string  `json:"displayName"`
	ExternalID       string  `json:"externalId"`
	DefaultRate      float64 `json:"defaultAnnualRate"` // percent
	MinAmount        float64 `json:"minAmount"`
	MaxAmount        float64 `json:"maxAmount"`
	MaxTenureYears   int     `json:"maxTenureYears"`
	DownPaymentRatio float64 `json:"downPaymentRatio,omitempty"` // 0 when not collateralized
}
