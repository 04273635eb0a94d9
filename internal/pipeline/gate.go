package pipeline

import (
	"context"
	"time"
)

// Gate bounds the number of in-flight AI calls. Acquire waits up to the
// configured timeout for a slot; callers must Release on every exit path.
type Gate struct {
	slots       chan struct{}
	waitTimeout time.Duration
}

// NewGate creates a gate with the given slot count and wait timeout.
func NewGate(size int, waitTimeout time.Duration) *Gate {
	if size <= 0 {
		size = 1
	}
	if waitTimeout <= 0 {
		waitTimeout = 10 * time.Second
	}
	return &Gate{
		slots:       make(chan struct{}, size),
		waitTimeout: waitTimeout,
	}
}

// Acquire takes a slot, failing with ErrCapacityExceeded when none frees up
// within the wait timeout.
func (g *Gate) Acquire(ctx context.Context) error {
	select {
	case g.slots <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(g.waitTimeout)
	defer timer.Stop()

	select {
	case g.slots <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrCapacityExceeded
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (g *Gate) Release() {
	select {
	case <-g.slots:
	default:
	}
}

// InFlight reports the number of held slots.
func (g *Gate) InFlight() int {
	return len(g.slots)
}
