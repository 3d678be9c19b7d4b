// Package executor dispatches a compiled render graph on the local machine:
// one goroutine per queue runs that queue's passes in order, and before each
// pass waits for the passes in its culled wait list. It is how a plan is
// simulated, and how tests prove the wait lists are sufficient at runtime.
package executor

import (
	"context"
	"time"

	"github.com/specialistvlad/passgraph/internal/passgraph"
)

// Executor runs a compiled plan.
type Executor interface {
	Execute(ctx context.Context) error
}

// PassFunc runs one pass.
type PassFunc func(ctx context.Context, node *passgraph.PassNode) error

// SetupFunc runs once per queue before the queue's first pass that uses the
// ray tracing path, e.g. to build acceleration structures.
type SetupFunc func(ctx context.Context, queue int) error

// Observer is notified after every pass execution.
type Observer interface {
	ObservePass(node *passgraph.PassNode, d time.Duration, err error)
}

// Option configures a Local executor.
type Option func(*Local)

// WithPassFunc runs fn for the pass named pass instead of the default.
func WithPassFunc(pass string, fn PassFunc) Option {
	return func(e *Local) {
		e.funcs[pass] = fn
	}
}

// WithDefault sets the function for passes without their own PassFunc.
func WithDefault(fn PassFunc) Option {
	return func(e *Local) {
		e.fallback = fn
	}
}

// WithRayTracingSetup sets the function run before the first ray tracing
// pass of each queue.
func WithRayTracingSetup(fn SetupFunc) Option {
	return func(e *Local) {
		e.rtSetup = fn
	}
}

// WithObserver reports every pass execution to o.
func WithObserver(o Observer) Option {
	return func(e *Local) {
		e.observer = o
	}
}
