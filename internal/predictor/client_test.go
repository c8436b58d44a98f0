package predictor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "loanform/internal/common/errors"
	"loanform/internal/common/logger"
	"loanform/internal/models"
	"loanform/internal/payload"
)

// ==========================
// Test Fixtures
// ==========================

func testProfile() models.ApplicantProfile {
	return models.ApplicantProfile{
		Name:               "Priya Sharma",
		Age:                "30",
		Gender:             "Female",
		MaritalStatus:      "Married",
		Dependents:         "1",
		Education:          "Graduate",
		EmploymentType:     "Salaried",
		YearsOfExperience:  "8",
		PropertyArea:       "Urban",
		MonthlyIncome:      "50000",
		CoapplicantIncome:  "0",
		CreditScore:        "700",
		ExistingEMIs:       "0",
		ExistingLoansCount: "0",
	}
}

func testRequest() models.LoanRequest {
	return models.LoanRequest{
		Type:        models.LoanTypePersonal,
		Amount:      "500000",
		TenureYears: "5",
	}
}

func testPayload() payload.PredictRequest {
	return payload.New(nil).Build(testProfile(), testRequest())
}

const validResultBody = `{
	"status": "success",
	"loan_type": "personalLoan",
	"applicant_name": "Priya Sharma",
	"approved": true,
	"approval_probability": 82.5,
	"loan_grade": "C",
	"loan_amount_requested": 500000,
	"sanctioned_amount": 440000,
	"sanction_ratio": 88,
	"monthly_emi": 9568.32,
	"rejection_reasons": [],
	"breakdown": {
		"financial_health": {
			"total_monthly_income": "50000",
			"existing_monthly_emis": "0",
			"projected_new_emi": "10874",
			"free_monthly_income": "39126",
			"debt_to_income_ratio": "21.7%",
			"emi_to_income_ratio": "21.7%"
		},
		"credit_profile": {
			"credit_score": 700,
			"credit_score_band": "Good",
			"existing_loans": 0,
			"is_high_risk_flag": false
		},
		"loan_metrics": {
			"amount_requested": "500000",
			"tenure": "60 months",
			"loan_to_income_ratio": "0.8",
			"sanctioned_amount": "440000",
			"monthly_emi_if_approved": "9568"
		},
		"approval_confidence": "High"
	}
}`

func newClient(t *testing.T, url string) *Client {
	t.Helper()
	return NewClient(url, 5*time.Second, logger.NewTestLogger(t))
}

// closedServerURL returns a URL nothing listens on.
func closedServerURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

// ==========================
// Predict
// ==========================

func TestPredict_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(validResultBody))
	}))
	defer srv.Close()

	result, err := newClient(t, srv.URL).Predict(context.Background(), testPayload())

	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.True(t, result.Approved)
	assert.Equal(t, 440000.0, result.SanctionedAmount)
	assert.Equal(t, "Good", result.Breakdown.CreditProfile.CreditScoreBand)
}

func TestPredict_MalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 with a body missing the breakdown must not pass.
		w.Write([]byte(`{"status": "success", "approved": true}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Predict(context.Background(), testPayload())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeMalformedResponse, apperrors.AsStandard(err).Code)
}

func TestPredict_NonJSONSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>proxy interference</html>`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Predict(context.Background(), testPayload())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeMalformedResponse, apperrors.AsStandard(err).Code)
}

func TestPredict_RemoteValidationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","monthly_income"],"msg":"ensure this value is greater than or equal to 15000"}]}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Predict(context.Background(), testPayload())

	require.Error(t, err)
	stdErr := apperrors.AsStandard(err)
	assert.Equal(t, apperrors.ErrCodeRemoteValidation, stdErr.Code)
	assert.Equal(t, 422, stdErr.StatusCode)
	require.Contains(t, stdErr.Fields, "monthlyIncome")
	assert.False(t, apperrors.IsFallbackEligible(err), "rejections are answers, not outages")
}

func TestPredict_ModelNotLoaded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail":"Model not loaded. Please try again later."}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Predict(context.Background(), testPayload())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeModelNotLoaded, apperrors.AsStandard(err).Code)
	assert.False(t, apperrors.IsFallbackEligible(err))
}

func TestPredict_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"unexpected error"}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Predict(context.Background(), testPayload())

	require.Error(t, err)
	stdErr := apperrors.AsStandard(err)
	assert.Equal(t, apperrors.ErrCodeRemoteServerError, stdErr.Code)
	assert.Equal(t, 500, stdErr.StatusCode)
	assert.Contains(t, stdErr.Details, "unexpected error")
}

func TestPredict_ServiceUnreachable(t *testing.T) {
	_, err := newClient(t, closedServerURL(t)).Predict(context.Background(), testPayload())

	require.Error(t, err)
	stdErr := apperrors.AsStandard(err)
	assert.Equal(t, apperrors.ErrCodeServiceUnreachable, stdErr.Code)
	assert.Equal(t, 0, stdErr.StatusCode, "no response means no status code")
	assert.True(t, apperrors.IsFallbackEligible(err))
}

func TestPredict_Cancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := newClient(t, srv.URL).Predict(ctx, testPayload())

	require.Error(t, err)
	assert.True(t, apperrors.IsCancelled(err))
	assert.False(t, apperrors.IsFallbackEligible(err), "aborts never fall back")
}

func TestPredict_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newClient(t, srv.URL).Predict(ctx, testPayload())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeRequestTimeout, apperrors.AsStandard(err).Code)
	assert.True(t, apperrors.IsFallbackEligible(err))
}

// ==========================
// Health
// ==========================

func TestHealth_Healthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Write([]byte(`{"status":"healthy","model_loaded":true,"version":"1.4.2"}`))
	}))
	defer srv.Close()

	status, err := newClient(t, srv.URL).Health(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "healthy", status.Status)
	assert.True(t, status.ModelLoaded)
	assert.Equal(t, "1.4.2", status.Version)
}

func TestHealth_DegradedStillParses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"degraded","model_loaded":false,"version":"1.4.2"}`))
	}))
	defer srv.Close()

	status, err := newClient(t, srv.URL).Health(context.Background())

	require.NoError(t, err, "a 503 health body is an answer, not a failure")
	assert.Equal(t, "degraded", status.Status)
	assert.False(t, status.ModelLoaded)
}

func TestHealth_Unreachable(t *testing.T) {
	_, err := newClient(t, closedServerURL(t)).Health(context.Background())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeServiceUnreachable, apperrors.AsStandard(err).Code)
}
