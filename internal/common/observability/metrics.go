package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider      *metric.MeterProvider
	meter              otelmetric.Meter
	submissionCounter  otelmetric.Int64Counter
	submissionDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	submissionCounter, _ := meter.Int64Counter(
		"submissions.processed",
		otelmetric.WithDescription("Number of prediction submissions processed"),
	)

	submissionDuration, _ := meter.Float64Histogram(
		"submissions.duration",
		otelmetric.WithDescription("Prediction submission duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:      provider,
		meter:              meter,
		submissionCounter:  submissionCounter,
		submissionDuration: submissionDuration,
	}
}

// RecordSubmission counts one finished submission. Source is "remote" or
// "offline"; status is the terminal outcome.
func (o *Observability) RecordSubmission(ctx context.Context, source, status string) {
	if o.submissionCounter != nil {
		o.submissionCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("source", source),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordSubmissionDuration(ctx context.Context, duration time.Duration, source string) {
	if o.submissionDuration != nil {
		o.submissionDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("source", source),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
