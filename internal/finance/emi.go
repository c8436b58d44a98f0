// Package finance holds the pure loan arithmetic shared by the form,
// the offline estimator, and result rendering.
package finance

import "math"

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// EMI returns the fixed monthly payment that amortizes principal over
// months at the given annual rate (reducing-balance formula). Any
// non-positive input yields 0; the rate guard also covers the r=0 case
// where the denominator (1+r)^n - 1 would vanish.
func EMI(principal, annualRatePercent float64, months int) float64 {
	if principal <= 0 || annualRatePercent <= 0 || months <= 0 {
		return 0
	}
	r := annualRatePercent / 100 / 12
	n := float64(months)
	pow := math.Pow(1+r, n)
	return round2(principal * r * pow / (pow - 1))
}

// TotalPayment is the EMI summed over the full tenure.
func TotalPayment(principal, annualRatePercent float64, months int) float64 {
	return round2(EMI(principal, annualRatePercent, months) * float64(months))
}
