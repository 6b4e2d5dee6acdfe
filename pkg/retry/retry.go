// Package retry provides the small retry policy applied to network
// operations before their failure is surfaced.
package retry

import (
	"context"
	"time"
)

// Policy retries a failing operation a fixed number of times with a doubling
// delay between attempts. The zero value performs exactly one attempt.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// Default is the policy used when none is configured.
var Default = Policy{Attempts: 3, Delay: 500 * time.Millisecond}

// Do runs fn until it succeeds, attempts are exhausted, or the context is
// cancelled. The last error is returned.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.Delay

	var err error
	for i := 0; i < attempts; i++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
