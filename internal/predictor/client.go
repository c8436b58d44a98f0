// Package predictor talks to the loan prediction service and stands in
// for it when it cannot be reached.
package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "loanform/internal/common/errors"
	httpclient "loanform/internal/common/http"
	"loanform/internal/common/logger"
	"loanform/internal/models"
	"loanform/internal/payload"
	"loanform/internal/validation"
)

// maxResponseBytes bounds how much of a response body is read. Real
// prediction bodies are a few KB; anything near the cap is garbage.
const maxResponseBytes = 1 << 20

// HealthStatus is the GET /health contract. The service answers it even
// when degraded, with a 503 wrapped around the same body.
type HealthStatus struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Version     string `json:"version"`
}

// Client is the HTTP client for the prediction service.
type Client struct {
	http    *httpclient.Client
	baseURL string
	log     logger.Logger
}

// NewClient builds a Client for the service at baseURL. The timeout is
// the transport-level ceiling; per-submission deadlines come from the
// caller's context.
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Client{
		http:    httpclient.NewClient(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// Predict submits one application and returns the service's verdict.
// Every failure comes back as a *apperrors.StandardError so callers can
// classify without string matching.
func (c *Client) Predict(ctx context.Context, req payload.PredictRequest) (*models.PredictionResult, error) {
	resp, err := c.http.PostJSON(ctx, c.baseURL+"/predict", req)
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := validateResultShape(body); err != nil {
			c.log.Error("prediction response failed shape check", map[string]interface{}{
				"error": err.Error(),
			})
			return nil, apperrors.NewMalformedResponseError(err.Error())
		}
		var result models.PredictionResult
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, apperrors.NewMalformedResponseError(err.Error())
		}
		return &result, nil

	case resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusBadRequest:
		fields := apperrors.NormalizeRemote(body)
		return nil, apperrors.NewRemoteValidationError(fields)

	case resp.StatusCode == http.StatusServiceUnavailable:
		detail := globalDetail(body)
		if strings.Contains(strings.ToLower(detail), "model") {
			return nil, apperrors.NewModelNotLoadedError(detail)
		}
		return nil, apperrors.NewRemoteServerError(resp.StatusCode, detail)

	default:
		return nil, apperrors.NewRemoteServerError(resp.StatusCode, globalDetail(body))
	}
}

// Health probes GET /health. A 503 still carries a parseable body, so
// status codes are ignored here; only the payload matters.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	resp, err := c.http.Get(ctx, c.baseURL+"/health")
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}

	var status HealthStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, apperrors.NewMalformedResponseError(err.Error())
	}
	return &status, nil
}

// classifyTransport maps a transport-level error to the taxonomy:
// cancelled, timed out, or unreachable. Only the latter two are fallback
// eligible.
func classifyTransport(ctx context.Context, err error) *apperrors.StandardError {
	if errors.Is(err, context.Canceled) || ctx.Err() == context.Canceled {
		return apperrors.NewRequestCancelledError()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewRequestTimeoutError(0)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return apperrors.NewRequestTimeoutError(0)
	}
	return apperrors.NewServiceUnreachableError(err)
}

// globalDetail flattens an error body to its global message for error
// details and logs.
func globalDetail(body []byte) string {
	errs := apperrors.NormalizeRemote(body)
	if msg := errs[validation.GlobalField]; msg != "" {
		return msg
	}
	return strings.TrimSpace(string(body))
}
