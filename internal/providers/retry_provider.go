package providers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
	"github.com/preston-bernstein/nba-game-recommender/internal/logging"
	"github.com/preston-bernstein/nba-game-recommender/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 500 * time.Millisecond
	maxBackoff           = 10 * time.Second
)

// retryingProvider wraps a GameProvider with exponential backoff and attempt metrics.
type retryingProvider struct {
	inner       GameProvider
	logger      *slog.Logger
	metrics     *metrics.Recorder
	name        string
	maxAttempts int
	newBackOff  func() backoff.BackOff
}

// NewRetryingProvider wraps the given provider with retries. If maxAttempts/initial are <= 0, defaults are used.
func NewRetryingProvider(inner GameProvider, logger *slog.Logger, recorder *metrics.Recorder, name string, maxAttempts int, initial time.Duration) GameProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if initial <= 0 {
		initial = defaultBackoff
	}
	return &retryingProvider{
		inner:       inner,
		logger:      logger,
		metrics:     recorder,
		name:        name,
		maxAttempts: maxAttempts,
		newBackOff: func() backoff.BackOff {
			exp := backoff.NewExponentialBackOff()
			exp.InitialInterval = initial
			exp.MaxInterval = maxBackoff
			exp.MaxElapsedTime = 0
			return exp
		},
	}
}

func (r *retryingProvider) Name() string {
	return r.name
}

func (r *retryingProvider) FetchCompletedGames(ctx context.Context, start, end time.Time) ([]games.GameRecord, error) {
	if r.inner == nil {
		return nil, ErrProviderUnavailable
	}
	attempt := 0
	op := func() ([]games.GameRecord, error) {
		attempt++
		began := time.Now()
		result, err := r.inner.FetchCompletedGames(ctx, start, end)
		r.metrics.RecordProviderAttempt(r.name, time.Since(began), err)
		if err == nil {
			return result, nil
		}
		if rl, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.name, rl.RetryAfter)
		}
		if !retryable(ctx, err) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), uint64(r.maxAttempts-1)), ctx)
	notify := func(err error, delay time.Duration) {
		r.logWarn(ctx, "provider fetch retry",
			"attempt", attempt,
			"max_attempts", r.maxAttempts,
			"delay_ms", delay.Milliseconds(),
			"error", err,
		)
	}

	result, err := backoff.RetryNotifyWithData(op, policy, notify)
	if err != nil {
		r.logWarn(ctx, "provider fetch failed", "attempts", attempt, "error", err)
		return nil, err
	}
	return result, nil
}

func (r *retryingProvider) IsTop5Team(ctx context.Context, abbr string) bool {
	if r.inner == nil {
		return false
	}
	return r.inner.IsTop5Team(ctx, abbr)
}

func (r *retryingProvider) RefreshReferenceData() {
	if r.inner != nil {
		r.inner.RefreshReferenceData()
	}
}

// Unwrap exposes the wrapped provider.
func (r *retryingProvider) Unwrap() GameProvider {
	return r.inner
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrProviderUnavailable) {
		return false
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Retryable()
	}
	return true
}

func (r *retryingProvider) logWarn(ctx context.Context, msg string, args ...any) {
	logger := logging.FromContext(ctx, r.logger)
	if logger != nil {
		logger.Warn(msg, append(args, slog.String(logging.FieldProvider, r.name))...)
	}
}
