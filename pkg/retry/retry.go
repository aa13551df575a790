// Package retry provides a bounded retry policy with linearly increasing
// backoff. The sleep function is injectable so callers can test retry
// behaviour without waiting.
package retry

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Policy retries an operation up to Attempts times, sleeping Delay*attempt
// between consecutive attempts (1x after the first failure, 2x after the
// second, and so on).
type Policy struct {
	// Attempts is the total number of tries, including the first. Values
	// below 1 behave as 1.
	Attempts int
	// Delay is the base backoff unit.
	Delay time.Duration
	// Sleep is called to wait between attempts. When nil, time.Sleep is used.
	Sleep func(time.Duration)
}

// Do runs fn until it succeeds, the attempts are exhausted, or ctx is done.
// The returned error is the last failure, annotated with the attempt count.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		last = fn(ctx)
		if last == nil {
			return nil
		}
		if attempt < attempts {
			sleep(p.Delay * time.Duration(attempt))
		}
	}
	return errors.Wrapf(last, "failed after %d attempts", attempts)
}
