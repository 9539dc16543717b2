// Package report ranks scan results and serializes them to export files.
package report

import (
	"sort"
	"time"

	"albionflip/internal/domain"
)

// Report is the ranked output of one scan cycle, ready for export.
type Report struct {
	RunID       string
	GeneratedAt time.Time

	// Snapshot is the quotes table the scan ran on, after backfill and
	// filtering.
	Snapshot []domain.PriceQuote
	// Opportunities is sorted by net profit percentage, descending.
	Opportunities []domain.Opportunity
	// RawSpreads is sorted by spread percentage, descending.
	RawSpreads []domain.SpreadEntry
	// Historical is the per-(item, city) fallback price summary.
	Historical []domain.HistoricalPrice
}

// Build assembles a Report. It copies and sorts the opportunity and spread
// slices; the inputs are left untouched. Sorting is stable so equal
// percentages keep their deterministic scan order.
func Build(runID string, generatedAt time.Time, snapshot []domain.PriceQuote,
	opps []domain.Opportunity, spreads []domain.SpreadEntry,
	hist []domain.HistoricalPrice) *Report {

	rankedOpps := make([]domain.Opportunity, len(opps))
	copy(rankedOpps, opps)
	sort.SliceStable(rankedOpps, func(i, j int) bool {
		return rankedOpps[i].NetProfitPct > rankedOpps[j].NetProfitPct
	})

	rankedSpreads := make([]domain.SpreadEntry, len(spreads))
	copy(rankedSpreads, spreads)
	sort.SliceStable(rankedSpreads, func(i, j int) bool {
		return rankedSpreads[i].SpreadPct > rankedSpreads[j].SpreadPct
	})

	return &Report{
		RunID:         runID,
		GeneratedAt:   generatedAt,
		Snapshot:      snapshot,
		Opportunities: rankedOpps,
		RawSpreads:    rankedSpreads,
		Historical:    hist,
	}
}

// Top returns the first n ranked opportunities for display. The full list
// stays in the export. Out-of-range n is clamped, never a panic.
func (r *Report) Top(n int) []domain.Opportunity {
	if n < 0 {
		n = 0
	}
	if n > len(r.Opportunities) {
		n = len(r.Opportunities)
	}
	return r.Opportunities[:n]
}

// Filename returns the timestamped export file name for the given extension.
func (r *Report) Filename(ext string) string {
	return "flipping_results_" + r.GeneratedAt.Format("20060102_150405") + "." + ext
}
