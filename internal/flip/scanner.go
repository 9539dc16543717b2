package flip

import (
	"fmt"
	"log/slog"

	"albionflip/internal/domain"
)

// Scanner enumerates ordered (source, dest) city pairs per item and keeps
// the pairs that clear the eligibility rules and the profit threshold.
type Scanner struct {
	items        []string
	minProfitPct float64
	profit       ProfitConfig
	rules        Rules
	logger       *slog.Logger
}

// ScannerConfig configures the scanner.
type ScannerConfig struct {
	Items        []string
	MinProfitPct float64
	Profit       ProfitConfig
	Rules        Rules
	Logger       *slog.Logger
}

// NewScanner creates a scanner for the configured items.
func NewScanner(cfg ScannerConfig) *Scanner {
	return &Scanner{
		items:        cfg.Items,
		minProfitPct: cfg.MinProfitPct,
		profit:       cfg.Profit,
		rules:        cfg.Rules,
		logger:       cfg.Logger.With(slog.String("component", "scanner")),
	}
}

// Find returns every qualifying opportunity in the quotes table. Output order
// is deterministic: items in configured order, pairs in quote order. The
// caller ranks the result; Find does not sort.
//
// Quotes with non-positive prices must already be filtered out (backfill and
// filtering happen upstream in the pipeline).
func (s *Scanner) Find(quotes []domain.PriceQuote) []domain.Opportunity {
	byItem := groupByItem(quotes)

	var out []domain.Opportunity
	for _, item := range s.items {
		subset := byItem[item]
		for _, src := range subset {
			for _, dst := range subset {
				if !s.rules.Eligible(src.City, dst.City) {
					continue
				}
				res, ok := ComputeProfit(src.BuyPrice, dst.SellPrice, s.profit)
				if !ok {
					continue
				}
				// Threshold on the unrounded value.
				if res.NetProfitPct < s.minProfitPct {
					continue
				}
				out = append(out, domain.Opportunity{
					ID:           pairID(item, src.City, dst.City),
					ItemID:       item,
					SourceCity:   src.City,
					DestCity:     dst.City,
					BuyPrice:     src.BuyPrice,
					SellPrice:    dst.SellPrice,
					GrossSpread:  res.GrossSpread,
					NetProfit:    Round2(res.NetProfit),
					NetProfitPct: Round2(res.NetProfitPct),
				})
			}
		}
	}

	s.logger.Debug("scan complete",
		slog.Int("quotes", len(quotes)),
		slog.Int("opportunities", len(out)),
	)
	return out
}

// RawSpreads returns pre-tax spread rows for the same eligible pairs. Prices
// at or below the floor are skipped just like in the taxed scan.
func (s *Scanner) RawSpreads(quotes []domain.PriceQuote) []domain.SpreadEntry {
	byItem := groupByItem(quotes)

	var out []domain.SpreadEntry
	for _, item := range s.items {
		subset := byItem[item]
		for _, src := range subset {
			for _, dst := range subset {
				if !s.rules.Eligible(src.City, dst.City) {
					continue
				}
				if src.BuyPrice <= s.profit.PriceFloor || dst.SellPrice <= s.profit.PriceFloor {
					continue
				}
				diff := dst.SellPrice - src.BuyPrice
				if diff <= 0 {
					continue
				}
				out = append(out, domain.SpreadEntry{
					ItemID:     item,
					SourceCity: src.City,
					DestCity:   dst.City,
					BuyPrice:   src.BuyPrice,
					SellPrice:  dst.SellPrice,
					Spread:     diff,
					SpreadPct:  Round2(float64(diff) / float64(src.BuyPrice) * 100),
				})
			}
		}
	}
	return out
}

// groupByItem buckets quotes by item ID, preserving input order within each
// bucket.
func groupByItem(quotes []domain.PriceQuote) map[string][]domain.PriceQuote {
	byItem := make(map[string][]domain.PriceQuote)
	for _, q := range quotes {
		byItem[q.ItemID] = append(byItem[q.ItemID], q)
	}
	return byItem
}

// pairID builds a deterministic identifier for an opportunity. The (item,
// source, dest) triple is naturally unique within one scan.
func pairID(item, src, dst string) string {
	return fmt.Sprintf("%s:%s->%s", item, src, dst)
}
