// Package ranker orders candidate items by profit and applies the activity
// thresholds used for display.
package ranker

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rewired-gh/alchscan/internal/models"
)

// ByMaxHighHourlyProfit returns a copy of items sorted by MaxHighHourlyProfit, highest first.
func ByMaxHighHourlyProfit(items []*models.Item) []*models.Item {
	return sortedDesc(items, func(i *models.Item) decimal.Decimal { return i.MaxHighHourlyProfit })
}

// ByProfitPerLowItem returns a copy of items sorted by ProfitPerLowItem, highest first.
func ByProfitPerLowItem(items []*models.Item) []*models.Item {
	return sortedDesc(items, func(i *models.Item) decimal.Decimal { return i.ProfitPerLowItem })
}

// ForSide returns the ranking used to shortlist items for side.
func ForSide(items []*models.Item, side models.Side) []*models.Item {
	if side == models.LowSide {
		return ByProfitPerLowItem(items)
	}
	return ByMaxHighHourlyProfit(items)
}

// Stable so equal profits keep catalog order.
func sortedDesc(items []*models.Item, key func(*models.Item) decimal.Decimal) []*models.Item {
	sorted := make([]*models.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i]).GreaterThan(key(sorted[j]))
	})
	return sorted
}

// Top returns at most the first n items.
func Top(items []*models.Item, n int) []*models.Item {
	if n < 0 {
		n = 0
	}
	if len(items) <= n {
		return items
	}
	return items[:n]
}

// FilterByVolume keeps items whose side volume is strictly above minVolume.
func FilterByVolume(items []*models.Item, side models.Side, minVolume int) []*models.Item {
	filtered := make([]*models.Item, 0, len(items))
	for _, item := range items {
		if item.Volume(side) > minVolume {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
