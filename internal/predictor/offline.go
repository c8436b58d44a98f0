package predictor

import (
	"fmt"
	"math"
	"time"

	"loanform/internal/common/config"
	"loanform/internal/finance"
	"loanform/internal/models"
	"loanform/pkg/catalog"
)

// Estimator approval policy. The thresholds mirror the service's
// published underwriting rules so offline verdicts rarely disagree with
// real ones.
const (
	minApprovalScore = 650
	maxApprovalDTI   = 65.0
	highRiskDTI      = 60.0
)

// Estimator produces a local approximation of the service's verdict
// when the service cannot be reached. It never fails: whatever the
// input, it returns a result tagged StatusMock.
type Estimator struct {
	rate    float64 // flat annual rate when the user supplied none
	haircut float64 // sanctioned = requested * haircut
	catalog *catalog.LoanCatalog
}

// NewEstimator builds an Estimator from the offline config section.
func NewEstimator(cfg config.OfflineConfig, cat *catalog.LoanCatalog) *Estimator {
	rate := cfg.EstimationRate
	if rate <= 0 {
		rate = 11.0
	}
	haircut := cfg.SanctionHaircut
	if haircut <= 0 || haircut > 1 {
		haircut = 0.88
	}
	if cat == nil {
		cat = catalog.Default()
	}
	return &Estimator{rate: rate, haircut: haircut, catalog: cat}
}

// Estimate scores one application locally.
func (e *Estimator) Estimate(p models.ApplicantProfile, r models.LoanRequest) models.PredictionResult {
	start := time.Now()

	amount := models.ParseAmount(r.Amount)
	months := models.ParseCount(r.TenureYears) * 12

	rate := e.rate
	if r.InterestRate != "" {
		if v := models.ParseAmount(r.InterestRate); v > 0 {
			rate = v
		}
	}

	income := models.ParseAmount(p.MonthlyIncome) + models.ParseAmount(p.CoapplicantIncome)
	if income <= 0 {
		income = 1
	}
	existingEMIs := models.ParseAmount(p.ExistingEMIs)
	score := models.ParseCount(p.CreditScore)

	emi := finance.EMI(amount, rate, months)
	dti := finance.DebtToIncome(existingEMIs, emi, income)

	approved := score >= minApprovalScore && dti < maxApprovalDTI

	var reasons []string
	if score < minApprovalScore {
		reasons = append(reasons, fmt.Sprintf("Credit score %d is below the minimum of %d", score, minApprovalScore))
	}
	if dti >= maxApprovalDTI {
		reasons = append(reasons, fmt.Sprintf("Debt-to-income ratio %.1f%% exceeds the maximum of %.0f%%", dti, maxApprovalDTI))
	}

	var sanctioned, sanctionRatio, sanctionedEMI float64
	if approved {
		sanctioned = math.Round(amount * e.haircut)
		sanctionRatio = e.haircut * 100
		sanctionedEMI = finance.EMI(sanctioned, rate, months)
	}

	probability := approvalProbability(score, dti)

	result := models.PredictionResult{
		Status:              models.StatusMock,
		LoanType:            e.externalLoanType(r.Type),
		ApplicantName:       p.Name,
		Approved:            approved,
		ApprovalProbability: probability,
		LoanGrade:           loanGrade(score),
		LoanAmountRequested: amount,
		SanctionedAmount:    sanctioned,
		SanctionRatio:       sanctionRatio,
		MonthlyEMI:          sanctionedEMI,
		RejectionReasons:    reasons,
		Breakdown: models.Breakdown{
			FinancialHealth: models.FinancialHealth{
				TotalMonthlyIncome:  fmt.Sprintf("%.0f", income),
				ExistingMonthlyEMIs: fmt.Sprintf("%.0f", existingEMIs),
				ProjectedNewEMI:     fmt.Sprintf("%.0f", emi),
				FreeMonthlyIncome:   fmt.Sprintf("%.0f", finance.FreeMonthlyIncome(income, existingEMIs, emi)),
				DebtToIncomeRatio:   fmt.Sprintf("%.1f%%", dti),
				EMIToIncomeRatio:    fmt.Sprintf("%.1f%%", emi/income*100),
			},
			CreditProfile: models.CreditProfile{
				CreditScore:     score,
				CreditScoreBand: finance.CreditScoreBand(score),
				ExistingLoans:   models.ParseCount(p.ExistingLoansCount),
				IsHighRiskFlag:  dti > highRiskDTI && score < minApprovalScore,
			},
			LoanMetrics: models.LoanMetrics{
				AmountRequested:      fmt.Sprintf("%.0f", amount),
				Tenure:               fmt.Sprintf("%d months", months),
				LoanToIncomeRatio:    fmt.Sprintf("%.1f", amount/income),
				SanctionedAmount:     fmt.Sprintf("%.0f", sanctioned),
				MonthlyEMIIfApproved: fmt.Sprintf("%.0f", sanctionedEMI),
			},
			ApprovalConfidence: confidenceLabel(probability),
		},
		ProcessingTimeMS: float64(time.Since(start).Microseconds()) / 1000,
	}
	return result
}

func (e *Estimator) externalLoanType(t models.LoanType) string {
	if p, ok := e.catalog.Product(string(t)); ok {
		return p.ExternalID
	}
	return "personalLoan"
}

// approvalProbability is a coarse score in [5, 95]: credit quality pulls
// it up, leverage pulls it down.
func approvalProbability(score int, dti float64) float64 {
	prob := 50.0
	prob += (float64(score) - float64(minApprovalScore)) * 0.15
	prob -= (dti - 30) * 0.6
	prob = math.Max(5, math.Min(95, prob))
	return math.Round(prob*10) / 10
}

func confidenceLabel(probability float64) string {
	switch {
	case probability >= 75:
		return "High"
	case probability >= 50:
		return "Moderate"
	default:
		return "Low"
	}
}

// loanGrade assigns the letter grade the service derives from the same
// score bands.
func loanGrade(score int) string {
	switch {
	case score >= 800:
		return "A"
	case score >= 750:
		return "B"
	case score >= 700:
		return "C"
	case score >= 650:
		return "D"
	default:
		return "E"
	}
}
