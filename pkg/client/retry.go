// Package client holds the retry and monitoring policy used when talking to
// the animation service.
package client

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Range is a closed interval of extra delay added to each backoff.
type Range struct {
	Min, Max time.Duration
}

// RetryPolicy decides whether and when a failed attempt is retried.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	Multiplier     float64
	// Jitter is optional. An empty range adds its lower bound.
	Jitter             *Range
	RetryableStatus    map[int]bool
	RetryableTransport map[TransportCode]bool
}

// DefaultRetryPolicy allows three attempts starting at 250ms and doubling,
// retrying 5xx responses and common connection failures.
func DefaultRetryPolicy() RetryPolicy {
	status := make(map[int]bool, 100)
	for code := 500; code <= 599; code++ {
		status[code] = true
	}
	return RetryPolicy{
		MaxAttempts:     3,
		InitialBackoff:  250 * time.Millisecond,
		Multiplier:      2,
		RetryableStatus: status,
		RetryableTransport: map[TransportCode]bool{
			CodeConnectionLost: true,
			CodeTimedOut:       true,
			CodeCannotFindHost: true,
			CodeCannotConnect:  true,
		},
	}
}

// Normalized clamps the policy to at least one attempt, a non-negative
// initial backoff and a multiplier of at least 1.
func (p RetryPolicy) Normalized() RetryPolicy {
	p.MaxAttempts = max(1, p.MaxAttempts)
	p.InitialBackoff = max(0, p.InitialBackoff)
	if !(p.Multiplier >= 1) {
		p.Multiplier = 1
	}
	return p
}

// ShouldRetry reports whether err is worth another attempt. Only HTTP and
// transport errors listed in the policy qualify.
func (p RetryPolicy) ShouldRetry(err error) bool {
	e, ok := AsError(err)
	if !ok {
		return false
	}
	switch e.Kind {
	case KindHTTP:
		return p.RetryableStatus[e.Status]
	case KindTransport:
		return p.RetryableTransport[e.Code]
	default:
		return false
	}
}

// Backoff is the delay after the given 1-based attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := float64(p.InitialBackoff) * math.Pow(p.Multiplier, float64(attempt-1))
	if j := p.Jitter; j != nil {
		if span := j.Max - j.Min; span > 0 {
			delay += float64(j.Min) + rand.Float64()*float64(span)
		} else {
			delay += float64(j.Min)
		}
	}
	return time.Duration(delay)
}

// RequestMetadata identifies one attempt.
type RequestMetadata struct {
	OperationID string
	Attempt     int
}

// Result is the outcome of one attempt. Err is nil on success.
type Result struct {
	StatusCode int
	Duration   time.Duration
	Err        *ServiceError
}

// Monitor observes every attempt.
type Monitor interface {
	WillSend(req RequestMetadata)
	DidComplete(req RequestMetadata, res Result)
}

// Operation performs one attempt and returns the response status.
type Operation func(ctx context.Context) (status int, err error)

// Executor runs operations under a retry policy.
type Executor struct {
	Policy  RetryPolicy
	Monitor Monitor
	// Sleep waits between attempts; it defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewExecutor returns an executor using DefaultRetryPolicy.
func NewExecutor() *Executor {
	return &Executor{Policy: DefaultRetryPolicy()}
}

// Do runs op until it succeeds, fails with a non-retryable error, or runs
// out of attempts. The failure of the final attempt is always wrapped in a
// KindRetriesExhausted error. Context cancellation returns the context's
// error at once.
func (e *Executor) Do(ctx context.Context, operationID string, op Operation) error {
	policy := e.Policy.Normalized()
	sleep := e.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		meta := RequestMetadata{OperationID: operationID, Attempt: attempt}
		if e.Monitor != nil {
			e.Monitor.WillSend(meta)
		}

		start := time.Now()
		status, err := op(ctx)
		elapsed := time.Since(start)

		if err == nil {
			if e.Monitor != nil {
				e.Monitor.DidComplete(meta, Result{StatusCode: status, Duration: elapsed})
			}
			return nil
		}

		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			if e.Monitor != nil {
				e.Monitor.DidComplete(meta, Result{
					Duration: elapsed,
					Err:      &ServiceError{Kind: KindUnknown, OperationID: operationID, Err: err},
				})
			}
			return err
		}

		serr := classify(err, operationID)
		if e.Monitor != nil {
			e.Monitor.DidComplete(meta, Result{StatusCode: status, Duration: elapsed, Err: serr})
		}

		if attempt >= policy.MaxAttempts {
			return &ServiceError{Kind: KindRetriesExhausted, OperationID: operationID, Err: serr}
		}
		if !policy.ShouldRetry(serr) {
			return serr
		}
		if err := sleep(ctx, policy.Backoff(attempt)); err != nil {
			return err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
