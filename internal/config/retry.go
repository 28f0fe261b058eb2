package config

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"time"
)

// retrier repeats an operation while it fails with retryable errors. The
// delay starts at base and doubles after every failure up to max. Each wait
// is drawn from the upper half of the current delay.
type retrier struct {
	base    time.Duration
	max     time.Duration
	onRetry func(attempt int, wait time.Duration, err error)
}

// do calls fn until it succeeds, fails permanently, or ctx ends.
func (r retrier) do(ctx context.Context, fn func(ctx context.Context) error) error {
	delay := r.base
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil || !retryable(err) {
			return err
		}

		wait := delay/2 + rand.N(delay-delay/2+1)
		if r.onRetry != nil {
			r.onRetry(attempt, wait, err)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(ctx.Err(), err)
		case <-timer.C:
		}
		delay = min(delay*2, r.max)
	}
}

// retryable reports whether err is worth another attempt: transport
// failures and temporary status codes are, everything else is not.
func retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
