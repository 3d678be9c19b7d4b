package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/passgraph/internal/ctxlog"
	"github.com/specialistvlad/passgraph/internal/passgraph"
	"golang.org/x/sync/errgroup"
)

// Local executes a plan with one goroutine per queue.
type Local struct {
	compiler *passgraph.Compiler
	funcs    map[string]PassFunc
	fallback PassFunc
	rtSetup  SetupFunc
	observer Observer
}

var _ Executor = (*Local)(nil)

// NewLocal creates an executor for the plan compiled by c.
func NewLocal(c *passgraph.Compiler, opts ...Option) *Local {
	e := &Local{
		compiler: c,
		funcs:    make(map[string]PassFunc),
		fallback: func(context.Context, *passgraph.PassNode) error { return nil },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs every pass once. It returns the first pass error, after which
// the remaining passes are abandoned.
func (e *Local) Execute(ctx context.Context) error {
	if !e.compiler.Built() {
		return passgraph.ErrNotBuilt
	}
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	nodes := e.compiler.Nodes()
	done := make([]chan struct{}, len(nodes))
	for i := range done {
		done[i] = make(chan struct{})
	}
	firstRT := e.compiler.FirstNodesUsingRayTracing()

	g, gctx := errgroup.WithContext(ctx)
	for q := range e.compiler.QueueCount() {
		passes := e.compiler.NodesForQueue(q)
		if len(passes) == 0 {
			continue
		}
		g.Go(func() error {
			return e.runQueue(gctx, q, passes, firstRT[q], done)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Plan execution failed.", "error", err)
		return err
	}
	logger.Info("Plan executed.", "passes", len(nodes), "duration", time.Since(start))
	return nil
}

func (e *Local) runQueue(ctx context.Context, queue int, passes []*passgraph.PassNode, firstRT *passgraph.PassNode, done []chan struct{}) error {
	ctx = ctxlog.With(ctx, "queue", queue)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Queue started.", "passes", len(passes))

	for _, node := range passes {
		for _, w := range node.NodesToSyncWith() {
			select {
			case <-done[w.Handle()]:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if node == firstRT && e.rtSetup != nil {
			logger.Debug("Running ray tracing setup.", "pass", node.String())
			if err := e.rtSetup(ctx, queue); err != nil {
				return fmt.Errorf("ray tracing setup on queue %d: %w", queue, err)
			}
		}

		if err := e.runPass(ctx, node); err != nil {
			return err
		}
		close(done[node.Handle()])
	}

	logger.Debug("Queue finished.")
	return nil
}

func (e *Local) runPass(ctx context.Context, node *passgraph.PassNode) error {
	fn, ok := e.funcs[node.String()]
	if !ok {
		fn = e.fallback
	}

	start := time.Now()
	err := fn(ctx, node)
	if e.observer != nil {
		e.observer.ObservePass(node, time.Since(start), err)
	}
	if err != nil {
		return fmt.Errorf("pass %q on queue %d failed: %w", node.String(), node.QueueIndex(), err)
	}

	ctxlog.FromContext(ctx).Debug("Pass executed.",
		"pass", node.String(),
		"level", node.DependencyLevelIndex(),
		"waited_on", len(node.NodesToSyncWith()))
	return nil
}
