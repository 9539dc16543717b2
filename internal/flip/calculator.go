// Package flip provides the profit calculator and the cross-city opportunity
// scanner that make up the core of the flipping pipeline.
package flip

import (
	"math"

	"albionflip/internal/domain"
)

// ProfitMode selects the net-percentage formula.
type ProfitMode string

const (
	// ProfitModeMargin computes the net percentage relative to the capital
	// committed on the buy leg.
	ProfitModeMargin ProfitMode = "margin"
	// ProfitModeSpread computes the net percentage relative to the gross
	// spread, discounted by the transaction tax only.
	ProfitModeSpread ProfitMode = "spread"
)

// ProfitConfig configures the profit calculator.
type ProfitConfig struct {
	Taxes domain.TaxConfig
	Mode  ProfitMode
	// PriceFloor rejects any price at or below this value as stale or
	// placeholder data.
	PriceFloor int
}

// ProfitResult holds the unrounded outcome of a profit computation. Rounding
// to two decimals happens at report time only, so threshold comparisons never
// flap on rounded values.
type ProfitResult struct {
	GrossSpread  int
	NetProfit    float64
	NetProfitPct float64
}

// ComputeProfit maps a (buy price, sell price) pair and tax configuration to
// a profit outcome. The boolean is false when the pair is rejected: a price
// at or below the floor, no gross spread, or non-positive net profit.
//
// Pure function: no side effects, same inputs always give the same outputs.
func ComputeProfit(buyPrice, sellPrice int, cfg ProfitConfig) (ProfitResult, bool) {
	if buyPrice <= cfg.PriceFloor || sellPrice <= cfg.PriceFloor {
		return ProfitResult{}, false
	}
	// Prices above the floor are strictly positive, so division by buyPrice
	// below is safe. Guarded anyway: a zero here is an upstream filter bug.
	if buyPrice <= 0 {
		return ProfitResult{}, false
	}
	spread := sellPrice - buyPrice
	if spread <= 0 {
		return ProfitResult{}, false
	}

	buy := float64(buyPrice)
	sell := float64(sellPrice)

	var net, pct float64
	switch cfg.Mode {
	case ProfitModeSpread:
		grossPct := float64(spread) / buy * 100
		pct = grossPct * (1 - cfg.Taxes.TransactionTax)
		net = float64(spread) * (1 - cfg.Taxes.TransactionTax)
	default: // ProfitModeMargin
		net = sell*(1-cfg.Taxes.ListingTax) - buy*(1+cfg.Taxes.TransactionTax)
		pct = (net - buy) / buy * 100
	}

	if net <= 0 {
		return ProfitResult{}, false
	}

	return ProfitResult{
		GrossSpread:  spread,
		NetProfit:    net,
		NetProfitPct: pct,
	}, true
}

// Round2 rounds a value to two decimal places for reporting.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
