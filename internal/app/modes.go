package app

import (
	"context"
)

// OnceMode runs a single scan+report cycle and exits.
func (a *App) OnceMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting once mode")
	return deps.Orchestrator.RunOnce(ctx)
}

// WatchMode runs cycles on the configured cron schedule until the context is
// cancelled.
func (a *App) WatchMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting watch mode")
	return deps.Orchestrator.Watch(ctx)
}
