package api

import (
	"context"
	"errors"
	"time"

	"github.com/psyprep/psyprep/internal/exercise"
	"github.com/psyprep/psyprep/internal/report"
	"github.com/psyprep/psyprep/internal/session"
)

// RetryPolicy is a bounded retry with fixed delay. MaxAttempts counts
// the original attempt, so {3, 2s} means one call plus two retries.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// SubmitRetryPolicy is the automatic policy for saving a finished
// session: 1 original attempt + 2 retries, 2 seconds apart. Once
// exhausted, the error surfaces and further retries are manual.
var SubmitRetryPolicy = RetryPolicy{MaxAttempts: 3, Delay: 2 * time.Second}

// AnalysisRetryPolicy retries the analysis fetch once automatically.
var AnalysisRetryPolicy = RetryPolicy{MaxAttempts: 2, Delay: 2 * time.Second}

// Analyzer fetches the feedback report for a saved session.
type Analyzer interface {
	AnalyzeSession(ctx context.Context, sessionID string) (*report.Report, error)
}

// retrySubmitter decorates a Submitter with a RetryPolicy.
type retrySubmitter struct {
	inner  session.Submitter
	policy RetryPolicy
}

// WithRetry wraps a Submitter with bounded fixed-delay retries.
func WithRetry(s session.Submitter, p RetryPolicy) session.Submitter {
	return &retrySubmitter{inner: s, policy: p}
}

func (r *retrySubmitter) SaveSession(ctx context.Context, kind exercise.Kind, responses []session.Response) (string, error) {
	var lastErr error
	for attempt := 0; attempt < r.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, r.policy.Delay); err != nil {
				return "", err
			}
		}
		id, err := r.inner.SaveSession(ctx, kind, responses)
		if err == nil {
			return id, nil
		}
		lastErr = err
		if !shouldRetry(err) {
			return "", err
		}
	}
	return "", lastErr
}

// analyzerWithRetry decorates an Analyzer with a RetryPolicy.
type analyzerWithRetry struct {
	inner  Analyzer
	policy RetryPolicy
}

// WithAnalysisRetry wraps an Analyzer with bounded fixed-delay retries.
func WithAnalysisRetry(a Analyzer, p RetryPolicy) Analyzer {
	return &analyzerWithRetry{inner: a, policy: p}
}

func (r *analyzerWithRetry) AnalyzeSession(ctx context.Context, sessionID string) (*report.Report, error) {
	var lastErr error
	for attempt := 0; attempt < r.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, r.policy.Delay); err != nil {
				return nil, err
			}
		}
		rep, err := r.inner.AnalyzeSession(ctx, sessionID)
		if err == nil {
			return rep, nil
		}
		lastErr = err
		if !shouldRetry(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

// shouldRetry classifies an error as transient. Context errors, auth
// rejections, and malformed payloads never improve on a retry.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var unauth *ErrUnauthorized
	if errors.As(err, &unauth) {
		return false
	}
	var malformed *ErrMalformedPayload
	if errors.As(err, &malformed) {
		return false
	}
	// Server errors and network failures are treated as transient.
	return true
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
