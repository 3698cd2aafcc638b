// Package catalog joins the instant price snapshot with item metadata and
// keeps the items worth alching.
//
// The join is inner: a snapshot entry without a mapping entry is dropped.
// An item is kept only if its clamped buy limit is positive and it turns a
// profit on at least one side after the reagent cost.
package catalog

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rewired-gh/alchscan/internal/models"
)

// Build returns the candidate items ordered by item ID.
func Build(snapshot map[int]models.PriceSnapshot, mapping []models.MappingEntry, conversionCost decimal.Decimal, limitCeiling int) []*models.Item {
	byID := make(map[int]models.MappingEntry, len(mapping))
	for _, entry := range mapping {
		byID[entry.ID] = entry
	}

	ids := make([]int, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	items := make([]*models.Item, 0, len(ids))
	for _, id := range ids {
		entry, ok := byID[id]
		if !ok {
			continue
		}

		item := join(id, snapshot[id], entry, limitCeiling)
		ApplyProfit(item, conversionCost)

		if item.Validate() != nil {
			continue
		}
		items = append(items, item)
	}
	return items
}

func join(id int, price models.PriceSnapshot, entry models.MappingEntry, limitCeiling int) *models.Item {
	highVolume, lowVolume := price.Volumes()
	return &models.Item{
		ID:              id,
		Name:            entry.Name,
		High:            price.HighPrice(),
		Low:             price.LowPrice(),
		HighAlch:        entry.HighAlchValue(),
		Limit:           ClampLimit(entry.BuyLimit(), limitCeiling),
		HighPriceVolume: highVolume,
		LowPriceVolume:  lowVolume,
	}
}
