package metadata

import (
	"context"
	"sync"
	"time"
)

// GateStatus reports the current rate-limit budget.
type GateStatus struct {
	Remaining int       // Calls left in the current window
	ResetAt   time.Time // When the oldest recorded call leaves the window
}

// Gate enforces a max-N-calls-per-rolling-window contract for the lookup
// provider. Callers await a slot before each request and record actual use
// after it; Status is advisory only.
type Gate struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	calls  []time.Time
}

// NewGate creates a gate allowing limit calls per rolling window.
func NewGate(limit int, window time.Duration) *Gate {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Gate{limit: limit, window: window}
}

// AwaitSlot blocks until a call slot is free or ctx is done.
func (g *Gate) AwaitSlot(ctx context.Context) error {
	for {
		g.mu.Lock()
		g.prune(time.Now())
		if len(g.calls) < g.limit {
			g.mu.Unlock()
			return nil
		}
		wait := time.Until(g.calls[0].Add(g.window))
		g.mu.Unlock()

		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RecordUse marks one call against the window.
func (g *Gate) RecordUse() {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now()
	g.prune(now)
	g.calls = append(g.calls, now)
}

// Status returns the remaining budget and when it next grows.
func (g *Gate) Status() GateStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now()
	g.prune(now)

	status := GateStatus{Remaining: g.limit - len(g.calls)}
	if len(g.calls) > 0 {
		status.ResetAt = g.calls[0].Add(g.window)
	} else {
		status.ResetAt = now
	}
	return status
}

// prune drops calls that have left the rolling window. Caller holds mu.
func (g *Gate) prune(now time.Time) {
	cutoff := now.Add(-g.window)
	i := 0
	for i < len(g.calls) && !g.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		g.calls = append(g.calls[:0], g.calls[i:]...)
	}
}
