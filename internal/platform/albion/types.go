package albion

import (
	"encoding/json"

	"albionflip/internal/domain"
)

// --------------------------------------------------------------------------
// Data Project API DTOs
// --------------------------------------------------------------------------

// apiPrice is one row of the /stats/prices snapshot endpoint. Field names are
// the API's own; note that they describe standing orders, not our trade
// direction.
type apiPrice struct {
	ItemID       string `json:"item_id"`
	City         string `json:"city"`
	Quality      int    `json:"quality"`
	SellPriceMin int    `json:"sell_price_min"`
	SellPriceMax int    `json:"sell_price_max"`
	BuyPriceMin  int    `json:"buy_price_min"`
	BuyPriceMax  int    `json:"buy_price_max"`
}

// toQuote normalizes an API row to the internal quote semantics: the lowest
// standing sell order is the ask (what we pay buying here), the highest
// standing buy order is the bid (what we receive selling here). The API's
// "buy"/"sell" naming is from the order owners' perspective, hence the
// apparent inversion.
func (p apiPrice) toQuote() domain.PriceQuote {
	return domain.PriceQuote{
		ItemID:    p.ItemID,
		City:      p.City,
		BuyPrice:  p.SellPriceMin,
		SellPrice: p.BuyPriceMax,
	}
}

// apiHistoryEntry is one time bucket of the /stats/history endpoint.
type apiHistoryEntry struct {
	SellPriceMin int    `json:"sell_price_min"`
	Timestamp    string `json:"timestamp"`
}

// decodeHistory normalizes the two response shapes the history endpoint is
// known to produce: a bare JSON array of entries, or an object wrapping the
// same array under "history".
func decodeHistory(body []byte) ([]apiHistoryEntry, error) {
	var entries []apiHistoryEntry
	if err := json.Unmarshal(body, &entries); err == nil {
		return entries, nil
	}

	var wrapped struct {
		History []apiHistoryEntry `json:"history"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.History, nil
}

// meanPositiveSell averages the positive sell-price observations, truncating
// to whole silver. Despite the "median" naming used around the fallback, the
// value has always been the arithmetic mean. Returns 0 when no entry has a
// positive price.
func meanPositiveSell(entries []apiHistoryEntry) int {
	var sum, n int
	for _, e := range entries {
		if e.SellPriceMin > 0 {
			sum += e.SellPriceMin
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n
}
