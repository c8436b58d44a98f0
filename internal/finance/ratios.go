package finance

import (
	"fmt"
	"math"
)

// HighLTVThreshold is the loan-to-value percentage above which the UI
// shows an extra-documentation warning. Display policy only, never a
// validation error.
const HighLTVThreshold = 80.0

// LoanToValue returns the loan-to-value percentage with one decimal
// place. ok is false when either input is absent, so callers never show
// a misleading 0% or Infinity%.
func LoanToValue(loanAmount, assetValue float64) (ltv string, ok bool) {
	if loanAmount <= 0 || assetValue <= 0 {
		return "", false
	}
	return fmt.Sprintf("%.1f", loanAmount/assetValue*100), true
}

// DebtToIncome returns total monthly obligations as a percentage of
// total monthly income. The denominator is floored at 1 so a zero
// income cannot divide by zero.
func DebtToIncome(existingEMIs, newEMI, totalMonthlyIncome float64) float64 {
	income := math.Max(totalMonthlyIncome, 1)
	return (existingEMIs + newEMI) / income * 100
}

// FreeMonthlyIncome is what remains after existing obligations and the
// projected new EMI.
func FreeMonthlyIncome(totalMonthlyIncome, existingEMIs, newEMI float64) float64 {
	return round2(totalMonthlyIncome - existingEMIs - newEMI)
}

// MinimumDownPayment is the smallest acceptable down payment for a
// collateralized purchase, rounded up to a whole unit. The ratio is a
// policy constant (0.20 for property, 0.10 for vehicles).
func MinimumDownPayment(price, ratio float64) float64 {
	return math.Ceil(price * ratio)
}

// CreditScoreBand labels a credit score the way the prediction service
// does, so offline estimates read identically to real responses.
func CreditScoreBand(score int) string {
	switch {
	case score >= 800:
		return "Exceptional"
	case score >= 750:
		return "Very Good"
	case score >= 700:
		return "Good"
	case score >= 650:
		return "Fair"
	case score >= 600:
		return "Poor"
	default:
		return "Very Poor"
	}
}
