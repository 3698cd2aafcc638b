package models

import (
	"github.com/shopspring/decimal"
)

// PriceSnapshot is one entry of the /latest endpoint.
// Every field is optional in the API; nulls and absent keys decode to invalid/nil.
type PriceSnapshot struct {
	High            decimal.NullDecimal `json:"high"`
	HighTime        *int64              `json:"highTime"`
	Low             decimal.NullDecimal `json:"low"`
	LowTime         *int64              `json:"lowTime"`
	HighPriceVolume *int64              `json:"highPriceVolume"`
	LowPriceVolume  *int64              `json:"lowPriceVolume"`
}

// HighPrice returns the instant-buy price, or zero when absent.
func (p PriceSnapshot) HighPrice() decimal.Decimal {
	return decimalOrZero(p.High)
}

// LowPrice returns the instant-sell price, or zero when absent.
func (p PriceSnapshot) LowPrice() decimal.Decimal {
	return decimalOrZero(p.Low)
}

// Volumes returns the snapshot's high and low volumes, zero when absent.
func (p PriceSnapshot) Volumes() (high, low int) {
	return int(intOrZero(p.HighPriceVolume)), int(intOrZero(p.LowPriceVolume))
}

// MappingEntry is one element of the /mapping endpoint.
type MappingEntry struct {
	ID       int                 `json:"id"`
	Name     string              `json:"name"`
	Examine  string              `json:"examine"`
	Members  bool                `json:"members"`
	Value    *int64              `json:"value"`
	LowAlch  decimal.NullDecimal `json:"lowalch"`
	HighAlch decimal.NullDecimal `json:"highalch"`
	Limit    *int                `json:"limit"`
	Icon     string              `json:"icon"`
}

// HighAlchValue returns the alchemy value, or zero when the item cannot be alched.
func (m MappingEntry) HighAlchValue() decimal.Decimal {
	return decimalOrZero(m.HighAlch)
}

// BuyLimit returns the stated buy limit, or zero when the API omits it.
func (m MappingEntry) BuyLimit() int {
	if m.Limit == nil {
		return 0
	}
	return *m.Limit
}

// TimeSeriesSample is one aggregated step of the /timeseries endpoint.
type TimeSeriesSample struct {
	Timestamp       int64               `json:"timestamp"`
	AvgHighPrice    decimal.NullDecimal `json:"avgHighPrice"`
	AvgLowPrice     decimal.NullDecimal `json:"avgLowPrice"`
	HighPriceVolume *int64              `json:"highPriceVolume"`
	LowPriceVolume  *int64              `json:"lowPriceVolume"`
}

// AvgPrice returns the side's average price and whether the step had one.
func (s TimeSeriesSample) AvgPrice(side Side) (decimal.Decimal, bool) {
	p := s.AvgHighPrice
	if side == LowSide {
		p = s.AvgLowPrice
	}
	if !p.Valid {
		return decimal.Zero, false
	}
	return p.Decimal, true
}

// Volume returns the side's traded volume, zero when absent.
func (s TimeSeriesSample) Volume(side Side) int64 {
	if side == LowSide {
		return intOrZero(s.LowPriceVolume)
	}
	return intOrZero(s.HighPriceVolume)
}

func decimalOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

func intOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
