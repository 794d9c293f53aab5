package msapi

import (
	"context"
	"time"
)

// RetryPolicy wraps a fallible operation with bounded exponential-backoff
// retry. The zero value performs a single attempt with no delay.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt, so the
	// operation runs at most MaxRetries+1 times.
	MaxRetries int

	// BaseDelay is the delay before the first retry; it doubles for every
	// subsequent one.
	BaseDelay time.Duration

	// Retryable classifies errors. Nil means IsRetryable.
	Retryable func(error) bool

	// OnRetry, when set, is invoked before each retry sleep with the
	// attempt number about to run (starting at 2) and the error that
	// triggered it.
	OnRetry func(attempt int, err error)
}

// Execute runs op until it succeeds, returns a non-retryable error, the
// retry budget is exhausted, or ctx is cancelled. The error of the last
// attempt is returned verbatim.
func (p RetryPolicy) Execute(ctx context.Context, op func(context.Context) error) error {
	classify := p.Retryable
	if classify == nil {
		classify = IsRetryable
	}
	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}

	var err error
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if p.OnRetry != nil {
				p.OnRetry(attempt+1, err)
			}
			if serr := sleep(ctx, p.delay(attempt)); serr != nil {
				return serr
			}
		}

		err = op(ctx)
		if err == nil {
			return nil
		}
		if !classify(err) {
			return err
		}
		if attempt >= retries {
			return err
		}
	}
}

// delay returns BaseDelay * 2^(retry-1) for the given retry number
// (1-based), i.e. the backoff strictly doubles per attempt.
func (p RetryPolicy) delay(retry int) time.Duration {
	if p.BaseDelay <= 0 || retry < 1 {
		return 0
	}
	d := p.BaseDelay
	for i := 1; i < retry; i++ {
		d *= 2
	}
	return d
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
