// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanform_predictions_total",
			Help: "Total number of prediction submissions by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	PredictionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanform_prediction_errors_total",
			Help: "Total number of failed submissions by error code",
		},
		[]string{"error_code"},
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "loanform_prediction_duration_seconds",
			Help: "Duration of prediction submissions in seconds",
		},
		[]string{"source"},
	)

	FallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loanform_fallbacks_total",
			Help: "Number of submissions answered by the offline estimator",
		},
	)

	SubmissionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "loanform_submissions_in_flight",
			Help: "Number of submissions currently awaiting a response",
		},
	)
)
