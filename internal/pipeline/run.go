// Package pipeline runs the fetch-scan-export-notify cycle that produces one
// flipping report.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"albionflip/internal/config"
	"albionflip/internal/domain"
	"albionflip/internal/flip"
	"albionflip/internal/notify"
	"albionflip/internal/report"
)

// Exporter serializes a built report to a file and returns its path.
type Exporter interface {
	Export(r *report.Report, dir string) (string, error)
}

// Runner executes one scan+report cycle. All collaborators are injected; the
// Runner itself holds no state between runs.
type Runner struct {
	cfg      *config.Config
	quotes   domain.QuoteRepository
	history  domain.HistoryRepository
	scanner  *flip.Scanner
	exporter Exporter
	archiver domain.ExportArchiver // nil disables archival
	notifier *notify.Notifier
	logger   *slog.Logger
}

// RunnerConfig bundles the Runner's collaborators.
type RunnerConfig struct {
	Config   *config.Config
	Quotes   domain.QuoteRepository
	History  domain.HistoryRepository
	Scanner  *flip.Scanner
	Exporter Exporter
	Archiver domain.ExportArchiver
	Notifier *notify.Notifier
	Logger   *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(cfg RunnerConfig) *Runner {
	return &Runner{
		cfg:      cfg.Config,
		quotes:   cfg.Quotes,
		history:  cfg.History,
		scanner:  cfg.Scanner,
		exporter: cfg.Exporter,
		archiver: cfg.Archiver,
		notifier: cfg.Notifier,
		logger:   cfg.Logger.With(slog.String("component", "pipeline")),
	}
}

// Result summarizes one completed cycle.
type Result struct {
	RunID         string
	ExportPath    string
	ArchiveKey    string
	Quotes        int
	Opportunities int
}

// Run executes one full cycle. A snapshot fetch failure is fatal and aborts
// the run; history lookups, archival, and notification are soft failures that
// are logged and skipped.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	logger := r.logger.With(slog.String("run_id", runID))
	started := time.Now()

	logger.InfoContext(ctx, "run starting",
		slog.Int("items", len(r.cfg.Items)),
		slog.Int("cities", len(r.cfg.Cities)),
	)

	// 1. Snapshot — fatal on failure.
	quotes, err := r.quotes.GetPrices(ctx, r.cfg.Items, r.cfg.Cities)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w: %v", domain.ErrSnapshotFetch, err)
	}
	logger.InfoContext(ctx, "snapshot fetched", slog.Int("rows", len(quotes)))

	// 2. Backfill missing sell prices from history, then drop anything still
	// unusable.
	quotes = r.backfill(ctx, quotes, logger)
	usable := filterUsable(quotes)
	logger.InfoContext(ctx, "quotes table ready",
		slog.Int("usable", len(usable)),
		slog.Int("dropped", len(quotes)-len(usable)),
	)

	// 3. Scan.
	opps := r.scanner.Find(usable)
	spreads := r.scanner.RawSpreads(usable)

	// 4. Historical summary for every configured (item, city).
	hist := r.historicalSummary(ctx)

	// 5. Rank and export.
	rep := report.Build(runID, started, usable, opps, spreads, hist)
	for i, o := range rep.Top(r.cfg.Export.TopN) {
		logger.InfoContext(ctx, "top opportunity",
			slog.Int("rank", i+1),
			slog.String("item", o.ItemID),
			slog.String("buy_in", o.SourceCity),
			slog.String("sell_in", o.DestCity),
			slog.Float64("net_profit", o.NetProfit),
			slog.Float64("profit_pct", o.NetProfitPct),
		)
	}

	path, err := r.exporter.Export(rep, r.cfg.Export.Dir)
	if err != nil {
		return nil, fmt.Errorf("pipeline: export: %w", err)
	}
	logger.InfoContext(ctx, "export written", slog.String("path", path))

	res := &Result{
		RunID:         runID,
		ExportPath:    path,
		Quotes:        len(usable),
		Opportunities: len(opps),
	}

	// 6. Archive — soft failure; the local file is already durable.
	if r.archiver != nil {
		key, err := r.archiver.ArchiveExport(ctx, runID, path)
		if err != nil {
			logger.WarnContext(ctx, "export archival failed", slog.String("error", err.Error()))
		} else {
			res.ArchiveKey = key
			logger.InfoContext(ctx, "export archived", slog.String("key", key))
		}
	}

	// 7. Notify — soft failure.
	if r.notifier != nil && r.notifier.Enabled() {
		msg := fmt.Sprintf("%d opportunities across %d quotes (min %.2f%% net)",
			len(opps), len(usable), r.cfg.Scan.MinProfitPct)
		if err := r.notifier.NotifyFile(ctx, "Flipping results", msg, path); err != nil {
			logger.WarnContext(ctx, "notification failed", slog.String("error", err.Error()))
		}
	}

	logger.InfoContext(ctx, "run finished",
		slog.Int("opportunities", len(opps)),
		slog.Duration("took", time.Since(started)),
	)
	return res, nil
}

// backfill replaces missing sell prices with the historical fallback.
// Lookups are sequential: backfill volume is small and the API limiter
// already paces the calls. Quotes that stay without a price are dropped by
// the caller.
func (r *Runner) backfill(ctx context.Context, quotes []domain.PriceQuote, logger *slog.Logger) []domain.PriceQuote {
	for i, q := range quotes {
		if q.HasSell() {
			continue
		}
		res := r.history.GetHistory(ctx, q.ItemID, q.City, r.cfg.History.TimeScaleHours)
		switch res.Status {
		case domain.HistoryOK:
			quotes[i].SellPrice = res.Price
		case domain.HistoryTransientErr:
			logger.WarnContext(ctx, "history backfill failed",
				slog.String("item", q.ItemID),
				slog.String("city", q.City),
				slog.String("error", res.Err.Error()),
			)
		}
	}
	return quotes
}

// historicalSummary fetches the fallback price for every configured (item,
// city) pair with bounded concurrency. Output order is fixed by the config
// order regardless of completion order; pairs without data are omitted.
func (r *Runner) historicalSummary(ctx context.Context) []domain.HistoricalPrice {
	type pair struct{ item, city string }

	var pairs []pair
	for _, item := range r.cfg.Items {
		for _, city := range r.cfg.Cities {
			pairs = append(pairs, pair{item, city})
		}
	}

	results := make([]domain.HistoricalPrice, len(pairs))
	found := make([]bool, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.History.Concurrency)
	for i, p := range pairs {
		i, p := i, p
		g.Go(func() error {
			res := r.history.GetHistory(gctx, p.item, p.city, r.cfg.History.TimeScaleHours)
			if res.OK() {
				results[i] = domain.HistoricalPrice{ItemID: p.item, City: p.city, MedianSell: res.Price}
				found[i] = true
			}
			return nil
		})
	}
	// Lookups never return errors, only statuses.
	_ = g.Wait()

	out := make([]domain.HistoricalPrice, 0, len(pairs))
	for i := range pairs {
		if found[i] {
			out = append(out, results[i])
		}
	}
	return out
}

// filterUsable drops quotes that still lack a positive price on either side
// after backfill.
func filterUsable(quotes []domain.PriceQuote) []domain.PriceQuote {
	out := make([]domain.PriceQuote, 0, len(quotes))
	for _, q := range quotes {
		if q.HasBuy() && q.HasSell() {
			out = append(out, q)
		}
	}
	return out
}
