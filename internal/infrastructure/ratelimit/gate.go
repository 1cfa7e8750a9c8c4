// Package ratelimit centralises the pacing of calls to rate-limited upstreams.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Gate spaces call starts by a minimum interval. Every caller hitting the
// same upstream shares one Gate. A serial gate also admits one call at a time.
type Gate struct {
	name     string
	interval time.Duration
	limiter  *rate.Limiter
	// slot is nil unless the gate is serial.
	slot chan struct{}
}

// NewGate creates a pacing gate. A non-positive interval admits calls immediately.
// Calls may overlap once started, so one slow request never holds up the next.
func NewGate(name string, interval time.Duration) *Gate {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Gate{
		name:     name,
		interval: interval,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// NewSerialGate creates a gate that also runs at most one call at a time.
func NewSerialGate(name string, interval time.Duration) *Gate {
	g := NewGate(name, interval)
	g.slot = make(chan struct{}, 1)
	return g
}

// Name returns the upstream the gate paces.
func (g *Gate) Name() string { return g.name }

// Interval returns the configured spacing.
func (g *Gate) Interval() time.Duration { return g.interval }

// Serial reports whether calls are run one at a time.
func (g *Gate) Serial() bool { return g.slot != nil }

// Do waits for the pacing interval (and the slot on a serial gate), then runs fn.
func (g *Gate) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if g.slot != nil {
		select {
		case g.slot <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
		defer func() { <-g.slot }()
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}
	return fn(ctx)
}

// Run is Do for operations that return a value.
func Run[T any](ctx context.Context, g *Gate, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := g.Do(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		out = v
		return err
	})
	return out, err
}

// Registry hands out one shared gate per upstream name.
type Registry struct {
	mu        sync.Mutex
	intervals map[string]time.Duration
	gates     map[string]*Gate
}

// NewRegistry creates a registry with per-upstream intervals.
func NewRegistry(intervals map[string]time.Duration) *Registry {
	cp := make(map[string]time.Duration, len(intervals))
	for k, v := range intervals {
		cp[k] = v
	}
	return &Registry{intervals: cp, gates: make(map[string]*Gate)}
}

// Gate returns the shared gate for name, creating it on first use.
// Unknown names get an unpaced gate.
func (r *Registry) Gate(name string) *Gate {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.gates[name]; ok {
		return g
	}
	g := NewGate(name, r.intervals[name])
	r.gates[name] = g
	return g
}
