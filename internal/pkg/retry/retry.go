// Package retry runs an operation under a backoff policy that keeps separate
// budgets for rate-limit and transient failures.
package retry

import (
	"context"
	"time"

	"treasury_checker/internal/domain/entity"
)

// Class is the retry treatment of a failure.
type Class int

const (
	Fatal Class = iota
	RateLimit
	Transient
)

func (c Class) String() string {
	switch c {
	case RateLimit:
		return "rate_limit"
	case Transient:
		return "transient"
	}
	return "fatal"
}

// Backoff returns the delay before retry n (0-based).
type Backoff func(n int) time.Duration

// Exponential doubles from base: base, 2*base, 4*base...
func Exponential(base time.Duration) Backoff {
	return func(n int) time.Duration { return base << uint(n) }
}

// Linear scales step by the retry number: step, 2*step, 3*step...
func Linear(step time.Duration) Backoff {
	return func(n int) time.Duration { return step * time.Duration(n+1) }
}

// Constant always waits d.
func Constant(d time.Duration) Backoff {
	return func(int) time.Duration { return d }
}

// Classifier maps an error to its retry class.
type Classifier func(error) Class

// ClassifyFetch treats 429 as RateLimit, timeouts and network errors as
// Transient, and everything else (absent data, 4xx/5xx, parse errors) as Fatal.
func ClassifyFetch(err error) Class {
	switch entity.KindOf(err) {
	case entity.FailureRateLimited:
		return RateLimit
	case entity.FailureTimeout, entity.FailureNetwork:
		return Transient
	}
	return Fatal
}

// Policy configures Do.
type Policy struct {
	// MaxAttempts bounds the failures of each class. A query that only ever
	// fails with one class is attempted exactly MaxAttempts times.
	MaxAttempts      int
	RateLimitBackoff Backoff
	TransientBackoff Backoff
	Classify         Classifier
	// Sleep waits between attempts. Tests swap it for a recorder.
	Sleep   func(ctx context.Context, d time.Duration) error
	OnRetry func(class Class, n int, delay time.Duration, err error)
}

// DefaultPolicy is 3 attempts per class, 3s exponential on 429 and 1.5s linear otherwise.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:      3,
		RateLimitBackoff: Exponential(3 * time.Second),
		TransientBackoff: Linear(1500 * time.Millisecond),
		Classify:         ClassifyFetch,
	}
}

// NoRetry runs an operation once.
func NoRetry() Policy {
	return Policy{MaxAttempts: 1, Classify: ClassifyFetch}
}

// SleepContext waits d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
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

// Do calls op sequentially until it succeeds, fails fatally, or a class budget
// runs out. The last error is returned unchanged.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	p = p.withDefaults()
	var (
		zero     T
		failures = map[Class]int{}
	)
	for {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		class := p.Classify(err)
		if class == Fatal {
			return zero, err
		}
		failures[class]++
		n := failures[class]
		if n >= p.MaxAttempts {
			return zero, err
		}
		backoff := p.TransientBackoff
		if class == RateLimit {
			backoff = p.RateLimitBackoff
		}
		delay := backoff(n - 1)
		if p.OnRetry != nil {
			p.OnRetry(class, n, delay, err)
		}
		if serr := p.Sleep(ctx, delay); serr != nil {
			return zero, err
		}
	}
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.RateLimitBackoff == nil {
		p.RateLimitBackoff = d.RateLimitBackoff
	}
	if p.TransientBackoff == nil {
		p.TransientBackoff = d.TransientBackoff
	}
	if p.Classify == nil {
		p.Classify = d.Classify
	}
	if p.Sleep == nil {
		p.Sleep = SleepContext
	}
	return p
}
