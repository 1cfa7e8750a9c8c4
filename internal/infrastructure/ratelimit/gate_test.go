package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGateSpacesCalls(t *testing.T) {
	g := NewGate("spacescan", 40*time.Millisecond)
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := g.Do(context.Background(), func(context.Context) error { return nil }); err != nil {
			t.Fatalf("Do: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 75*time.Millisecond {
		t.Fatalf("three calls at 40ms spacing finished in %v", elapsed)
	}
}

func maxConcurrent(g *Gate, callers int, hold time.Duration) int32 {
	var inFlight, peak int32
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.Do(context.Background(), func(context.Context) error {
				n := atomic.AddInt32(&inFlight, 1)
				for {
					m := atomic.LoadInt32(&peak)
					if n <= m || atomic.CompareAndSwapInt32(&peak, m, n) {
						break
					}
				}
				time.Sleep(hold)
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
		}()
	}
	wg.Wait()
	return peak
}

func TestSerialGateRunsOneCallAtATime(t *testing.T) {
	g := NewSerialGate("treasury-steps", 0)
	if !g.Serial() {
		t.Fatalf("serial gate must report Serial")
	}
	if peak := maxConcurrent(g, 8, 2*time.Millisecond); peak != 1 {
		t.Fatalf("serial gate allowed %d concurrent calls", peak)
	}
}

func TestPacingGateDoesNotBlockOnSlowCall(t *testing.T) {
	g := NewGate("spacescan", 5*time.Millisecond)
	if g.Serial() {
		t.Fatalf("pacing gate must not be serial")
	}

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = g.Do(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	called := false
	if err := g.Do(ctx, func(context.Context) error { called = true; return nil }); err != nil || !called {
		t.Fatalf("second call blocked behind a slow one: err=%v called=%v", err, called)
	}
	close(release)
}

func TestGateRespectsCancellation(t *testing.T) {
	g := NewGate("slow", time.Hour)
	_ = g.Do(context.Background(), func(context.Context) error { return nil })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	called := false
	err := g.Do(ctx, func(context.Context) error { called = true; return nil })
	if err == nil || called {
		t.Fatalf("expected cancellation before the call, err=%v called=%v", err, called)
	}
}

func TestRegistrySharesGates(t *testing.T) {
	r := NewRegistry(map[string]time.Duration{"spacescan": time.Second})
	if r.Gate("spacescan") != r.Gate("spacescan") {
		t.Fatalf("registry must return the same gate for one upstream")
	}
	if r.Gate("spacescan").Interval() != time.Second {
		t.Fatalf("configured interval not applied")
	}
	if r.Gate("other").Interval() != 0 {
		t.Fatalf("unknown upstream should not be paced")
	}
}

func TestRunReturnsValue(t *testing.T) {
	v, err := Run(context.Background(), NewGate("x", 0), func(context.Context) (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Fatalf("Run = %d, %v", v, err)
	}
}
