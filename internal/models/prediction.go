package models

// Result status tags. "mock" marks an offline estimate so the rendering
// layer can show a provenance banner without changing anything else.
const (
	StatusSuccess = "success"
	StatusMock    = "mock"
)

// FinancialHealth carries the income/EMI ratios, pre-formatted by the
// producer (service or estimator) for direct display.
type FinancialHealth struct {
	TotalMonthlyIncome  string `json:"total_monthly_income"`
	ExistingMonthlyEMIs string `json:"existing_monthly_emis"`
	ProjectedNewEMI     string `json:"projected_new_emi"`
	FreeMonthlyIncome   string `json:"free_monthly_income"`
	DebtToIncomeRatio   string `json:"debt_to_income_ratio"`
	EMIToIncomeRatio    string `json:"emi_to_income_ratio"`
}

// CreditProfile summarizes the applicant's credit standing.
type CreditProfile struct {
	CreditScore     int    `json:"credit_score"`
	CreditScoreBand string `json:"credit_score_band"`
	ExistingLoans   int    `json:"existing_loans"`
	IsHighRiskFlag  bool   `json:"is_high_risk_flag"`
}

// LoanMetrics summarizes the requested loan against the verdict.
type LoanMetrics struct {
	AmountRequested      string `json:"amount_requested"`
	Tenure               string `json:"tenure"`
	LoanToIncomeRatio    string `json:"loan_to_income_ratio"`
	SanctionedAmount     string `json:"sanctioned_amount"`
	MonthlyEMIIfApproved string `json:"monthly_emi_if_approved"`
}

// Breakdown is the nested explanation block of a prediction.
type Breakdown struct {
	FinancialHealth    FinancialHealth `json:"financial_health"`
	CreditProfile      CreditProfile   `json:"credit_profile"`
	LoanMetrics        LoanMetrics     `json:"loan_metrics"`
	ApprovalConfidence string          `json:"approval_confidence"`
}

// PredictionResult is the verdict for one submission, produced by either
// the prediction service or the offline estimator. It is immutable once
// created.
type PredictionResult struct {
	Status              string    `json:"status"` // StatusSuccess | StatusMock
	LoanType            string    `json:"loan_type"`
	ApplicantName       string    `json:"applicant_name"`
	Approved            bool      `json:"approved"`
	ApprovalProbability float64   `json:"approval_probability"` // 0..100
	LoanGrade           string    `json:"loan_grade"`
	LoanAmountRequested float64   `json:"loan_amount_requested"`
	SanctionedAmount    float64   `json:"sanctioned_amount"` // 0 if rejected
	SanctionRatio       float64   `json:"sanction_ratio"`    // % of requested
	MonthlyEMI          float64   `json:"monthly_emi"`
	RejectionReasons    []string  `json:"rejection_reasons"`
	Breakdown           Breakdown `json:"breakdown"`
	ProcessingTimeMS    float64   `json:"processing_time_ms,omitempty"`
}
