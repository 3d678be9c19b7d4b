package app

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/passgraph/internal/ctxlog"
	"github.com/specialistvlad/passgraph/internal/executor"
	"github.com/specialistvlad/passgraph/internal/report"
)

// Run compiles the graph, writes the report and, depending on the
// configuration, simulates the plan and serves it until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	plan, err := a.Build(ctx)
	if err != nil {
		return err
	}

	if err := report.Write(a.outW, a.config.Format, plan); err != nil {
		return fmt.Errorf("failed to write %s report: %w", a.config.Format, err)
	}

	if a.config.Simulate {
		a.logger.Info("🚀 Simulating plan execution...")
		if err := a.Simulate(ctx); err != nil {
			return fmt.Errorf("simulation failed: %w", err)
		}
		a.logger.Info("🏁 Simulation finished.")
	}

	if a.config.ServePort > 0 {
		return a.Serve(ctx, fmt.Sprintf(":%d", a.config.ServePort))
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// Build declares the loaded model into a fresh build cycle and compiles it.
// Every attempt is recorded in the metrics.
func (a *App) Build(ctx context.Context) (*report.Plan, error) {
	logger := ctxlog.FromContext(ctx)
	a.compiler.Clear()

	start := time.Now()
	err := Declare(a.compiler, a.model)
	if err == nil {
		err = a.compiler.Build(ctx)
	}
	a.metrics.ObserveBuild(a.compiler, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to build render graph: %w", err)
	}

	plan, err := report.NewPlan(a.compiler, a.model)
	if err != nil {
		return nil, err
	}
	logger.Debug("Plan captured.", "passes", plan.Stats.Passes, "waits", plan.Stats.Waits)

	a.mu.Lock()
	a.plan = plan
	a.mu.Unlock()
	return plan, nil
}

// Simulate dispatches the compiled plan on the local executor.
func (a *App) Simulate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	exec := executor.NewLocal(a.compiler,
		executor.WithObserver(a.metrics),
		executor.WithRayTracingSetup(func(_ context.Context, queue int) error {
			logger.Info("Building acceleration structures.", "queue", a.model.QueueName(queue))
			return nil
		}),
	)
	return exec.Execute(ctx)
}
