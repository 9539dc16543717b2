package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	s3blob "albionflip/internal/blob/s3"
	"albionflip/internal/config"
	"albionflip/internal/domain"
	"albionflip/internal/flip"
	"albionflip/internal/notify"
	"albionflip/internal/pipeline"
	"albionflip/internal/platform/albion"
	"albionflip/internal/report"
)

// Dependencies bundles everything the run modes need to operate. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Orchestrator *pipeline.Orchestrator
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// --- Market-data API client (both quote and history repository) ---
	client := albion.NewClient(albion.ClientConfig{
		BaseURL:           cfg.API.RegionHost,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		HistoryRetries:    cfg.History.Retries,
		Logger:            logger,
	})

	// --- Scanner ---
	scanner := flip.NewScanner(flip.ScannerConfig{
		Items:        cfg.Items,
		MinProfitPct: cfg.Scan.MinProfitPct,
		Profit: flip.ProfitConfig{
			Taxes: domain.TaxConfig{
				TransactionTax: cfg.Taxes.TransactionTaxPct,
				ListingTax:     cfg.Taxes.TaxRate,
			},
			Mode:       flip.ProfitMode(strings.ToLower(cfg.Scan.ProfitMode)),
			PriceFloor: cfg.Scan.PriceFloor,
		},
		Rules:  flip.NewRules(cfg.Scan.RestrictedSources),
		Logger: logger,
	})

	// --- Exporter ---
	var exporter pipeline.Exporter
	switch strings.ToLower(cfg.Export.Format) {
	case "csv":
		exporter = report.NewCSVExporter()
	default:
		exporter = report.NewXLSXExporter()
	}

	// --- S3 export archival (only when a bucket is configured) ---
	var archiver domain.ExportArchiver
	if cfg.S3.Bucket != "" {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		archiver = s3blob.NewExportArchiver(s3blob.NewWriter(s3Client))
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	notifier := notify.NewNotifier(senders, logger)

	// --- Pipeline ---
	runner := pipeline.NewRunner(pipeline.RunnerConfig{
		Config:   cfg,
		Quotes:   client,
		History:  client,
		Scanner:  scanner,
		Exporter: exporter,
		Archiver: archiver,
		Notifier: notifier,
		Logger:   logger,
	})

	deps := &Dependencies{
		Orchestrator: pipeline.NewOrchestrator(runner, cfg.Schedule, logger),
	}
	return deps, cleanup, nil
}
