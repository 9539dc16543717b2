package domain

import "context"

// QuoteRepository fetches current price snapshots from the market-data API.
type QuoteRepository interface {
	// GetPrices returns one quote per (item, city) pair the API knows about.
	// A failed snapshot fetch is fatal for the run.
	GetPrices(ctx context.Context, items, cities []string) ([]PriceQuote, error)
}

// HistoryRepository fetches historical fallback prices. Lookups are soft:
// failures surface as HistoryResult statuses, never as errors that abort a
// run.
type HistoryRepository interface {
	GetHistory(ctx context.Context, itemID, city string, timeScaleHours int) HistoryResult
}
