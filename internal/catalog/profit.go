package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/rewired-gh/alchscan/internal/models"
)

const (
	// NatureRuneID is the reagent consumed by every High Level Alchemy cast.
	NatureRuneID = 561
	// DefaultLimitCeiling caps the buy limit used for hourly profit, independent
	// of the limit the API reports.
	DefaultLimitCeiling = 1200
)

// ConversionCost returns the instant-buy price of the reagent item.
// The second result is false when the snapshot has no entry or no high
// price for it, in which case the cost is zero.
func ConversionCost(snapshot map[int]models.PriceSnapshot, reagentID int) (decimal.Decimal, bool) {
	entry, ok := snapshot[reagentID]
	if !ok || !entry.High.Valid {
		return decimal.Zero, false
	}
	return entry.High.Decimal, true
}

// ClampLimit bounds a buy limit by ceiling.
func ClampLimit(limit, ceiling int) int {
	if limit > ceiling {
		return ceiling
	}
	return limit
}

// ApplyProfit derives the per-item and full-limit profits for both sides.
// High, Low, HighAlch and the clamped Limit must already be set.
func ApplyProfit(item *models.Item, conversionCost decimal.Decimal) {
	limit := decimal.NewFromInt(int64(item.Limit))

	item.ProfitPerHighItem = item.HighAlch.Sub(item.High).Sub(conversionCost)
	item.ProfitPerLowItem = item.HighAlch.Sub(item.Low).Sub(conversionCost)

	item.MaxHighHourlyProfit = item.ProfitPerHighItem.Mul(limit)
	item.MaxLowHourlyProfit = item.ProfitPerLowItem.Mul(limit)
}
