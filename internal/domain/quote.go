// Package domain contains the core types shared by the flipping scanner:
// price quotes, opportunities, historical lookups, and the interfaces the
// pipeline depends on.
package domain

// PriceQuote is one item's market prices at a single city, taken from a
// snapshot fetch.
//
// BuyPrice is the ask: the lowest sell-order price at the city, i.e. what a
// flipper pays to buy the item there. SellPrice is the bid: the highest
// buy-order price, i.e. what a flipper receives selling instantly there.
// A price of zero means the side is unavailable at that city, never a real
// zero price.
type PriceQuote struct {
	ItemID    string
	City      string
	BuyPrice  int
	SellPrice int
}

// HasBuy reports whether the quote carries a usable buy-side price.
func (q PriceQuote) HasBuy() bool { return q.BuyPrice > 0 }

// HasSell reports whether the quote carries a usable sell-side price.
func (q PriceQuote) HasSell() bool { return q.SellPrice > 0 }

// TaxConfig holds the two market taxes applied to a flip. Both are fractions
// in [0,1). TransactionTax applies to the buy leg, ListingTax to the sell leg,
// independently of each other.
type TaxConfig struct {
	TransactionTax float64
	ListingTax     float64
}
