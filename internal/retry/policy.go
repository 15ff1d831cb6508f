// Package retry holds the retry policy applied by every network client.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrExhausted indicates that every attempt failed with a retryable error.
var ErrExhausted = errors.New("retry attempts exhausted")

type Schedule string

const (
	ScheduleFixed       Schedule = "fixed"
	ScheduleExponential Schedule = "exponential"
)

// Policy describes how an operation is retried: how many attempts in total,
// the delay schedule between them, and which errors are worth retrying.
// A nil Retryable retries every error.
type Policy struct {
	MaxAttempts int
	Schedule    Schedule
	Initial     time.Duration
	Max         time.Duration
	Retryable   func(error) bool

	// OnRetry, when set, is called before each wait.
	OnRetry func(err error, wait time.Duration)
}

// Fixed returns a policy with a constant delay between attempts.
func Fixed(attempts int, delay time.Duration, retryable func(error) bool) Policy {
	return Policy{MaxAttempts: attempts, Schedule: ScheduleFixed, Initial: delay, Retryable: retryable}
}

// Exponential returns a policy with randomized exponential delays
// between min and max.
func Exponential(attempts int, min, max time.Duration, retryable func(error) bool) Policy {
	return Policy{MaxAttempts: attempts, Schedule: ScheduleExponential, Initial: min, Max: max, Retryable: retryable}
}

// Do runs op until it succeeds, returns a non-retryable error, the attempts
// run out, or ctx is done. When attempts run out the last error is wrapped
// with ErrExhausted.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	permanent := false
	operation := func() error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			permanent = true
			return backoff.Permanent(err)
		}
		return err
	}

	var notify backoff.Notify
	if p.OnRetry != nil {
		notify = p.OnRetry
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(p.backOff(), ctx), notify)
	switch {
	case err == nil:
		return nil
	case permanent:
		var perr *backoff.PermanentError
		if errors.As(err, &perr) {
			return perr.Err
		}
		return err
	case ctx.Err() != nil:
		return err
	default:
		return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, p.attempts(), err)
	}
}

func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p Policy) backOff() backoff.BackOff {
	var b backoff.BackOff
	switch p.Schedule {
	case ScheduleExponential:
		eb := backoff.NewExponentialBackOff()
		if p.Initial > 0 {
			eb.InitialInterval = p.Initial
		}
		if p.Max > 0 {
			eb.MaxInterval = p.Max
		}
		eb.MaxElapsedTime = 0
		eb.Reset()
		b = eb
	default:
		b = backoff.NewConstantBackOff(p.Initial)
	}
	return backoff.WithMaxRetries(b, uint64(p.attempts()-1))
}
