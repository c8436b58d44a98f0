package predictor

import (
	"context"
	"math/rand"
	"sync"
	"time"

	apperrors "loanform/internal/common/errors"
	"loanform/internal/common/logger"
	"loanform/internal/common/metrics"
	"loanform/internal/common/observability"
	"loanform/internal/models"
	"loanform/internal/payload"
	"loanform/internal/store"
	"loanform/internal/validation"
)

// Result provenance labels for metrics and logs.
const (
	SourceRemote  = "remote"
	SourceOffline = "offline"
)

const defaultSubmitTimeout = 30 * time.Second

// Outcome is what one submission produced: either a verdict or the
// field errors that stopped it before the wire.
type Outcome struct {
	Result      *models.PredictionResult
	FieldErrors validation.ErrorMap
	Source      string // SourceRemote | SourceOffline, set when Result is
}

// SubmitterOptions wires a Submitter. Client is required; everything
// else has a usable default.
type SubmitterOptions struct {
	Client        *Client
	Estimator     *Estimator
	Store         store.Store
	Mapper        *payload.Mapper
	Engine        *validation.Engine
	Logger        logger.Logger
	Observability *observability.Observability

	Timeout        time.Duration
	OfflineEnabled bool
	// Simulated processing window for offline estimates, so a fallback
	// verdict does not appear implausibly fast.
	MinDelay time.Duration
	MaxDelay time.Duration
}

// Submitter orchestrates one submission at a time: validate, map, call
// the service, fall back to the offline estimator when eligible, and
// persist the outcome. Starting a new submission cancels the previous
// one.
type Submitter struct {
	mu         sync.Mutex
	cancel     context.CancelFunc
	generation uint64

	client    *Client
	estimator *Estimator
	store     store.Store
	mapper    *payload.Mapper
	engine    *validation.Engine
	log       logger.Logger
	obs       *observability.Observability

	timeout        time.Duration
	offlineEnabled bool
	minDelay       time.Duration
	maxDelay       time.Duration
}

func NewSubmitter(opts SubmitterOptions) *Submitter {
	if opts.Mapper == nil {
		opts.Mapper = payload.New(nil)
	}
	if opts.Engine == nil {
		opts.Engine = validation.New(nil)
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultSubmitTimeout
	}
	if opts.MaxDelay < opts.MinDelay {
		opts.MaxDelay = opts.MinDelay
	}
	return &Submitter{
		client:         opts.Client,
		estimator:      opts.Estimator,
		store:          opts.Store,
		mapper:         opts.Mapper,
		engine:         opts.Engine,
		log:            opts.Logger,
		obs:            opts.Observability,
		timeout:        opts.Timeout,
		offlineEnabled: opts.OfflineEnabled && opts.Estimator != nil,
		minDelay:       opts.MinDelay,
		maxDelay:       opts.MaxDelay,
	}
}

// Submit runs one application through the full pipeline. A non-nil
// Outcome with FieldErrors set means validation stopped the submission;
// that is not an error. A cancelled submission returns an error for
// which apperrors.IsCancelled is true, and callers should treat it as a
// no-op.
func (s *Submitter) Submit(ctx context.Context, p models.ApplicantProfile, r models.LoanRequest) (*Outcome, error) {
	r.NormalizeVariant()
	if errs := s.engine.Validate(p, r); !errs.Valid() {
		return &Outcome{FieldErrors: errs}, nil
	}

	ctx, finish := s.begin(ctx)
	defer finish()

	metrics.SubmissionsInFlight.Inc()
	defer metrics.SubmissionsInFlight.Dec()
	start := time.Now()

	result, source, err := s.predict(ctx, p, r)
	if err != nil {
		if !apperrors.IsCancelled(err) {
			code := string(apperrors.AsStandard(err).Code)
			metrics.PredictionErrors.WithLabelValues(code).Inc()
			if s.obs != nil {
				s.obs.RecordSubmission(ctx, source, "error")
			}
			s.log.WithError(err).Error("submission failed", map[string]interface{}{
				"loan_type": string(r.Type),
				"code":      code,
			})
		}
		return nil, err
	}

	duration := time.Since(start)
	outcome := "rejected"
	if result.Approved {
		outcome = "approved"
	}
	metrics.PredictionsTotal.WithLabelValues(source, outcome).Inc()
	metrics.PredictionDuration.WithLabelValues(source).Observe(duration.Seconds())
	if s.obs != nil {
		s.obs.RecordSubmission(ctx, source, outcome)
		s.obs.RecordSubmissionDuration(ctx, duration, source)
	}

	s.persist(p, r, *result)

	return &Outcome{Result: result, Source: source}, nil
}

// Cancel aborts the in-flight submission, if any.
func (s *Submitter) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// begin installs this submission as the sole in-flight one, cancelling
// whatever was running before.
func (s *Submitter) begin(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	s.cancel = cancel
	s.mu.Unlock()

	return ctx, func() {
		s.mu.Lock()
		// Only clear the slot if a newer submission has not replaced us.
		if s.generation == gen {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
	}
}

// predict calls the service and, when the failure is one the offline
// estimator may answer, estimates locally instead.
func (s *Submitter) predict(ctx context.Context, p models.ApplicantProfile, r models.LoanRequest) (*models.PredictionResult, string, error) {
	result, err := s.client.Predict(ctx, s.mapper.Build(p, r))
	if err == nil {
		return result, SourceRemote, nil
	}

	if apperrors.IsCancelled(err) || ctx.Err() == context.Canceled {
		return nil, SourceRemote, apperrors.NewRequestCancelledError()
	}
	if !s.offlineEnabled || !apperrors.IsFallbackEligible(err) {
		return nil, SourceRemote, err
	}

	s.log.WithError(err).Warn("prediction service unavailable, estimating offline", map[string]interface{}{
		"loan_type": string(r.Type),
	})
	metrics.FallbacksTotal.Inc()

	if err := s.simulateProcessing(ctx); err != nil {
		return nil, SourceOffline, err
	}
	estimate := s.estimator.Estimate(p, r)
	return &estimate, SourceOffline, nil
}

// simulateProcessing sleeps for a random interval inside the configured
// window, honoring cancellation. A deadline-expired context skips the
// delay instead of failing: the user has already waited out the full
// timeout, and the estimate itself needs no service.
func (s *Submitter) simulateProcessing(ctx context.Context) error {
	if ctx.Err() == context.DeadlineExceeded {
		return nil
	}

	delay := s.minDelay
	if span := s.maxDelay - s.minDelay; span > 0 {
		delay += time.Duration(rand.Int63n(int64(span)))
	}
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil
		}
		return apperrors.NewRequestCancelledError()
	}
}

// persist records the outcome. Storage failures are logged, never
// surfaced: the user already has their verdict.
func (s *Submitter) persist(p models.ApplicantProfile, r models.LoanRequest, result models.PredictionResult) {
	if s.store == nil {
		return
	}

	// Detached context so cancelling the next submission cannot abort
	// this write.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.AppendHistory(ctx, models.NewHistoryEntry(p, r, result)); err != nil {
		s.log.WithError(err).Warn("failed to record submission history", nil)
	}
	if err := s.store.SaveLastResult(ctx, result); err != nil {
		s.log.WithError(err).Warn("failed to save last result", nil)
	}
}
