// Package models defines the domain entities for alchscan.
//
// Terminology (matching the OSRS Wiki prices API):
//   - high: the latest instant-buy price, what a buyer paid to fill immediately.
//   - low: the latest instant-sell price.
//   - highalch: the coins returned by casting High Level Alchemy on the item.
//   - limit: the Grand Exchange buy limit per four hour window.
package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Side selects which half of the market an operation looks at.
// High-side rankings buy at the instant-buy price and are enriched with
// 5 minute samples; low-side rankings buy at the instant-sell price and
// are enriched with 1 hour samples.
type Side int

const (
	HighSide Side = iota
	LowSide
)

func (s Side) String() string {
	if s == LowSide {
		return "low"
	}
	return "high"
}

// Timestep returns the time-series step used to enrich this side.
func (s Side) Timestep() string {
	if s == LowSide {
		return "1h"
	}
	return "5m"
}

// Item is one tradeable item that survived the catalog join and profit filter.
// It is created by the catalog builder, mutated once by the profit calculation
// and at most once more by enrichment.
type Item struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	High     decimal.Decimal `json:"high"`
	Low      decimal.Decimal `json:"low"`
	HighAlch decimal.Decimal `json:"highalch"`
	Limit    int             `json:"limit"` // Clamped buy limit

	ProfitPerHighItem   decimal.Decimal `json:"profit_per_high_item"`
	ProfitPerLowItem    decimal.Decimal `json:"profit_per_low_item"`
	MaxHighHourlyProfit decimal.Decimal `json:"max_high_hourly_profit"`
	MaxLowHourlyProfit  decimal.Decimal `json:"max_low_hourly_profit"`

	// Set by enrichment only
	AvgHighPrice decimal.Decimal `json:"avg_high_price"`
	AvgLowPrice  decimal.Decimal `json:"avg_low_price"`

	// Instant snapshot volume until enrichment replaces it with the windowed average
	HighPriceVolume int `json:"high_price_volume"`
	LowPriceVolume  int `json:"low_price_volume"`
}

// Validate checks the candidate invariant: a positive limit and a positive
// profit on at least one side.
func (i *Item) Validate() error {
	if i.Limit <= 0 {
		return errors.New("limit must be positive")
	}
	if !i.ProfitPerHighItem.IsPositive() && !i.ProfitPerLowItem.IsPositive() {
		return errors.New("item must be profitable on at least one side")
	}
	return nil
}

// Price returns the instant price for the side.
func (i *Item) Price(s Side) decimal.Decimal {
	if s == LowSide {
		return i.Low
	}
	return i.High
}

// AvgPrice returns the enriched average price for the side.
func (i *Item) AvgPrice(s Side) decimal.Decimal {
	if s == LowSide {
		return i.AvgLowPrice
	}
	return i.AvgHighPrice
}

// ProfitPerItem returns the per-item alchemy profit for the side.
func (i *Item) ProfitPerItem(s Side) decimal.Decimal {
	if s == LowSide {
		return i.ProfitPerLowItem
	}
	return i.ProfitPerHighItem
}

// MaxHourlyProfit returns the profit for buying a full limit on the side.
func (i *Item) MaxHourlyProfit(s Side) decimal.Decimal {
	if s == LowSide {
		return i.MaxLowHourlyProfit
	}
	return i.MaxHighHourlyProfit
}

// Volume returns the traded volume for the side.
func (i *Item) Volume(s Side) int {
	if s == LowSide {
		return i.LowPriceVolume
	}
	return i.HighPriceVolume
}

// SetEnrichment stores the windowed average price and volume for the side.
func (i *Item) SetEnrichment(s Side, avgPrice decimal.Decimal, volume int) {
	if s == LowSide {
		i.AvgLowPrice = avgPrice
		i.LowPriceVolume = volume
		return
	}
	i.AvgHighPrice = avgPrice
	i.HighPriceVolume = volume
}
