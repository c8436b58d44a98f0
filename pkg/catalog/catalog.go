// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Default returns the compiled-in catalog. Rates and bounds here are
// policy constants, not derived values.
func Default() *LoanCatalog {
	return &LoanCatalog{
		Version:     "1",
		LastUpdated: "2026-07-14",
		Products: []LoanProduct{
			{
				Type:             "home",
				DisplayName:      "Home Loan",
				ExternalID:       "homeLoan",
				DefaultRate:      8.5,
				MinAmount:        100_000,
				MaxAmount:        50_000_000,
				MaxTenureYears:   30,
				DownPaymentRatio: 0.20,
			},
			{
				Type:             "car",
				DisplayName:      "Car Loan",
				ExternalID:       "carLoan",
				DefaultRate:      9.5,
				MinAmount:        50_000,
				MaxAmount:        2_500_000,
				MaxTenureYears:   7,
				DownPaymentRatio: 0.10,
			},
			{
				Type:             "bike",
				DisplayName:      "Bike Loan",
				ExternalID:       "bikeLoan",
				DefaultRate:      11.5,
				MinAmount:        20_000,
				MaxAmount:        500_000,
				MaxTenureYears:   5,
				DownPaymentRatio: 0.10,
			},
			{
				Type:           "education",
				DisplayName:    "Education Loan",
				ExternalID:     "educationLoan",
				DefaultRate:    10.5,
				MinAmount:      50_000,
				MaxAmount:      7_500_000,
				MaxTenureYears: 15,
			},
			{
				Type:           "personal",
				DisplayName:    "Personal Loan",
				ExternalID:     "personalLoan",
				DefaultRate:    14.0,
				MinAmount:      10_000,
				MaxAmount:      2_000_000,
				MaxTenureYears: 5,
			},
			{
				// "generic" is a distinct form flow but the service does
				// not distinguish it from a personal loan.
				Type:           "generic",
				DisplayName:    "Loan",
				ExternalID:     "personalLoan",
				DefaultRate:    12.0,
				MinAmount:      10_000,
				MaxAmount:      2_000_000,
				MaxTenureYears: 5,
			},
		},
	}
}

// Load reads a catalog from a JSON file.
func Load(path string) (*LoanCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat LoanCatalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("catalog parse failed: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Product looks up a product by internal loan type.
func (c *LoanCatalog) Product(loanType string) (LoanProduct, bool) {
	for _, p := range c.Products {
		if p.Type == loanType {
			return p, true
		}
	}
	return LoanProduct{}, false
}

// Validate checks structural invariants of a loaded catalog.
func (c *LoanCatalog) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("catalog version is required")
	}
	if len(c.Products) == 0 {
		return fmt.Errorf("catalog has no products")
	}
	seen := make(map[string]bool, len(c.Products))
	for _, p := range c.Products {
		if p.Type == "" {
			return fmt.Errorf("product with empty type")
		}
		if seen[p.Type] {
			return fmt.Errorf("duplicate product type %q", p.Type)
		}
		seen[p.Type] = true
		if p.ExternalID == "" {
			return fmt.Errorf("product %q: externalId is required", p.Type)
		}
		if p.DefaultRate <= 0 {
			return fmt.Errorf("product %q: defaultAnnualRate must be positive", p.Type)
		}
		if p.MinAmount <= 0 || p.MaxAmount <= p.MinAmount {
			return fmt.Errorf("product %q: invalid amount bounds [%v, %v]", p.Type, p.MinAmount, p.MaxAmount)
		}
		if p.MaxTenureYears <= 0 {
			return fmt.Errorf("product %q: maxTenureYears must be positive", p.Type)
		}
		if p.DownPaymentRatio < 0 || p.DownPaymentRatio >= 1 {
			return fmt.Errorf("product %q: downPaymentRatio out of range", p.Type)
		}
	}
	return nil
}
