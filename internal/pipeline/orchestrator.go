package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Orchestrator drives the Runner: a single cycle in once mode, or repeated
// cycles on a cron schedule in watch mode.
type Orchestrator struct {
	runner   *Runner
	schedule string
	logger   *slog.Logger
}

// NewOrchestrator creates an Orchestrator for the given runner.
func NewOrchestrator(runner *Runner, schedule string, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		runner:   runner,
		schedule: schedule,
		logger:   logger.With(slog.String("component", "orchestrator")),
	}
}

// RunOnce executes a single cycle and returns its error, fatal for the
// process in once mode.
func (o *Orchestrator) RunOnce(ctx context.Context) error {
	_, err := o.runner.Run(ctx)
	return err
}

// Watch runs one cycle immediately, then repeats on the cron schedule until
// the context is cancelled. A failed cycle is logged and the schedule keeps
// going; only the initial cycle is allowed to abort watch mode, since a
// broken config or endpoint would otherwise fail silently forever.
func (o *Orchestrator) Watch(ctx context.Context) error {
	if err := o.RunOnce(ctx); err != nil {
		return fmt.Errorf("orchestrator: initial run: %w", err)
	}

	c := cron.New()
	_, err := c.AddFunc(o.schedule, func() {
		if _, err := o.runner.Run(ctx); err != nil {
			o.logger.ErrorContext(ctx, "scheduled run failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("orchestrator: invalid schedule %q: %w", o.schedule, err)
	}

	o.logger.InfoContext(ctx, "watch mode started", slog.String("schedule", o.schedule))
	c.Start()
	<-ctx.Done()

	// Let an in-flight run finish before returning.
	stopCtx := c.Stop()
	<-stopCtx.Done()

	o.logger.Info("watch mode stopped")
	return ctx.Err()
}
