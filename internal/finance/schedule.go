package finance

import "sort"

// ScheduleRow is one tenure point in the EMI comparison table.
type ScheduleRow struct {
	TenureYears     int     `json:"tenureYears"`
	MonthlyEMI      float64 `json:"monthlyEmi"`
	TotalPayment    float64 `json:"totalPayment"`
	TotalInterest   float64 `json:"totalInterest"`
	InterestPercent float64 `json:"interestPercent"` // interest as % of principal
	Selected        bool    `json:"selected"`
}

// Schedule builds the EMI table for a principal at annualRatePercent.
// Tenure points are dense where EMI is most sensitive to the choice:
// every year up to min(5, max), then every 5 years to max, then max
// itself, then the currently selected tenure. Deduplicated, ascending,
// deterministic for identical inputs.
func Schedule(principal, annualRatePercent float64, maxTenureYears, selectedTenureYears int) []ScheduleRow {
	if maxTenureYears <= 0 {
		return nil
	}

	points := make(map[int]bool)
	short := maxTenureYears
	if short > 5 {
		short = 5
	}
	for y := 1; y <= short; y++ {
		points[y] = true
	}
	for y := 10; y <= maxTenureYears; y += 5 {
		points[y] = true
	}
	points[maxTenureYears] = true
	if selectedTenureYears >= 1 && selectedTenureYears <= maxTenureYears {
		points[selectedTenureYears] = true
	}

	years := make([]int, 0, len(points))
	for y := range points {
		years = append(years, y)
	}
	sort.Ints(years)

	rows := make([]ScheduleRow, 0, len(years))
	for _, y := range years {
		months := y * 12
		emi := EMI(principal, annualRatePercent, months)
		total := round2(emi * float64(months))
		interest := round2(total - principal)
		pct := 0.0
		if principal > 0 {
			pct = round2(interest / principal * 100)
		}
		rows = append(rows, ScheduleRow{
			TenureYears:     y,
			MonthlyEMI:      emi,
			TotalPayment:    total,
			TotalInterest:   interest,
			InterestPercent: pct,
			Selected:        y == selectedTenureYears,
		})
	}
	return rows
}
