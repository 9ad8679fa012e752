package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/OliveiraNt/offset-scout/internal/config"
	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/OliveiraNt/offset-scout/internal/utils"
)

// TimeoutGuard bounds one call site with an escalating deadline. Every invocation bumps the
// try counter up to MaxTries, and the deadline grows by Increment per try. The counter never
// resets for the lifetime of the guard.
type TimeoutGuard struct {
	name string

	mu     sync.Mutex
	policy config.TimeoutPolicy
	tries  int
}

// NewTimeoutGuard creates a guard named after the call site it protects.
func NewTimeoutGuard(name string, policy config.TimeoutPolicy) *TimeoutGuard {
	return &TimeoutGuard{name: name, policy: policy}
}

// Name returns the call site name.
func (g *TimeoutGuard) Name() string { return g.name }

// Tries returns the current try counter.
func (g *TimeoutGuard) Tries() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tries
}

// SetPolicy swaps the policy, keeping the try counter within the new MaxTries.
func (g *TimeoutGuard) SetPolicy(p config.TimeoutPolicy) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.policy = p
	if limit := maxTries(p); g.tries > limit {
		g.tries = limit
	}
}

// next advances the counter and returns the deadline for this invocation.
func (g *TimeoutGuard) next() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tries < maxTries(g.policy) {
		g.tries++
	}
	return g.policy.Initial() + time.Duration(g.tries-1)*g.policy.Increment()
}

func maxTries(p config.TimeoutPolicy) int {
	if p.MaxTries < 1 {
		return 1
	}
	return p.MaxTries
}

type guarded[T any] struct {
	v   T
	err error
}

// Guard runs op under g's current deadline. If the deadline fires first, op's context is
// cancelled, its eventual result is dropped, and a *domain.TimeoutError is returned.
func Guard[T any](ctx context.Context, g *TimeoutGuard, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	timeout := g.next()

	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan guarded[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				utils.Logger.Error("guarded operation panicked", "op", g.name, "panic", r)
				done <- guarded[T]{err: fmt.Errorf("%s panicked: %v", g.name, r)}
			}
		}()
		v, err := op(opCtx)
		done <- guarded[T]{v: v, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.v, r.err
	case <-timer.C:
		cancel()
		utils.Logger.Warn("operation timed out", "op", g.name, "after", timeout)
		return zero, &domain.TimeoutError{Op: g.name, After: timeout}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
