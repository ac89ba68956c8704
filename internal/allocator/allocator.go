package allocator

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Factory builds the generator for the n-th acquisition.
type Factory[G any] func(n int64) (G, error)

// Allocator hands out one generator per goroutine of work. The counter is
// its only shared mutable state: every acquisition takes the next value
// atomically, so concurrent callers never receive the same n. A generator
// is bound to a context and reused by whoever carries that context, with
// no synchronization after the first access.
type Allocator[G any] struct {
	name    string
	counter atomic.Int64
	failed  atomic.Int64
	factory Factory[G]
	key     *contextKey
	logger  *slog.Logger
}

type contextKey struct {
	name string
}

// New returns an allocator whose counter starts at zero.
func New[G any](name string, factory Factory[G], logger *slog.Logger) *Allocator[G] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Allocator[G]{
		name:    name,
		factory: factory,
		key:     &contextKey{name: name},
		logger:  logger,
	}
}

// Acquire takes the next counter value and builds its generator.
func (a *Allocator[G]) Acquire() (G, error) {
	n := a.counter.Add(1) - 1
	g, err := a.factory(n)
	if err != nil {
		a.failed.Add(1)
		var zero G
		return zero, fmt.Errorf("%s: acquire generator %d: %w", a.name, n, err)
	}
	a.logger.Debug("generator acquired", "allocator", a.name, "n", n)
	return g, nil
}

// Bind returns ctx carrying a generator of this allocator. A context that
// already carries one is returned as is, without touching the counter.
func (a *Allocator[G]) Bind(ctx context.Context) (context.Context, G, error) {
	if g, ok := a.From(ctx); ok {
		return ctx, g, nil
	}
	g, err := a.Acquire()
	if err != nil {
		return ctx, g, err
	}
	return context.WithValue(ctx, a.key, g), g, nil
}

// From returns the generator bound to ctx, if any.
func (a *Allocator[G]) From(ctx context.Context) (G, bool) {
	g, ok := ctx.Value(a.key).(G)
	return g, ok
}

// Issued reports how many counter values have been taken.
func (a *Allocator[G]) Issued() int64 {
	return a.counter.Load()
}

func (a *Allocator[G]) Failed() int64 {
	return a.failed.Load()
}

func (a *Allocator[G]) Name() string {
	return a.name
}
