// Package guardrails bounds how long a publish run may take
package guardrails

import (
	"context"
	"time"
)

// Timeouts caps the phases of one publish run.
// Zero values mean no limit at that level
type Timeouts struct {
	// Run bounds the whole publish, including the credential prompt
	Run time.Duration

	// Read bounds loading the merged dataset
	Read time.Duration

	// Sink bounds the single sink call
	Sink time.Duration
}

// WithRun returns the run context; it never extends a parent deadline
func WithRun(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Run)
}

// ForRead returns a context for the read phase
func ForRead(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Read)
}

// ForSink returns a context for the sink call
func ForSink(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Sink)
}

// Remaining is the time left before ctx's deadline, zero when there is none or it passed
func Remaining(ctx context.Context) time.Duration {
	dl, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	if d := time.Until(dl); d > 0 {
		return d
	}
	return 0
}

// withChildTimeout takes the tighter of d and the parent's remainder.
// d <= 0 yields a plain cancelable child
func withChildTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem := Remaining(parent); rem > 0 && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}
