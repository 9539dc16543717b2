package domain

// Opportunity is a qualifying (buy-city, sell-city) flip for one item. It is
// derived from a single scan, immutable, and never persisted beyond the
// export files of the run that produced it.
//
// SourceCity and DestCity are always distinct, and SourceCity is never a
// restricted venue (e.g. the Black Market, which only accepts sales).
type Opportunity struct {
	ID           string
	ItemID       string
	SourceCity   string
	DestCity     string
	BuyPrice     int
	SellPrice    int
	GrossSpread  int
	NetProfit    float64 // currency units, rounded to 2 decimals
	NetProfitPct float64 // percent, rounded to 2 decimals
}

// SpreadEntry is a raw pre-tax spread row between two cities. It ignores
// taxes entirely and exists so operators can eyeball the widest spreads next
// to the taxed opportunity list.
type SpreadEntry struct {
	ItemID     string
	SourceCity string
	DestCity   string
	BuyPrice   int
	SellPrice  int
	Spread     int
	SpreadPct  float64 // percent, rounded to 2 decimals
}

// HistoricalPrice is one (item, city) fallback price derived from past
// observations, shown on the historical summary sheet.
type HistoricalPrice struct {
	ItemID     string
	City       string
	MedianSell int
}
