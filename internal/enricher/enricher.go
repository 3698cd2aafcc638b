// Package enricher folds recent time-series samples into per-item average
// price and volume.
//
// For each shortlisted item the last SampleWindow samples of its history are
// read. Items with no traded volume in that window are dropped, as are items
// whose window has volume but no average price at all. Survivors get
//
//	avgPrice = sum(present average prices) / count(present average prices)
//	volume   = sum(volumes) / SampleWindow
//
// The volume divisor is SampleWindow even when the series is shorter, so a
// young item reads as lower-volume than its samples alone would suggest.
package enricher

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rewired-gh/alchscan/internal/logger"
	"github.com/rewired-gh/alchscan/internal/models"
)

// SampleWindow is the number of most recent samples folded per item, and the
// fixed divisor of the average volume.
const SampleWindow = 6

// TimeSeriesSource returns an item's history at a step, oldest first.
type TimeSeriesSource interface {
	TimeSeries(ctx context.Context, timestep string, itemID int) ([]models.TimeSeriesSample, error)
}

// Enricher augments items with windowed averages
type Enricher struct {
	source TimeSeriesSource
}

// New creates an Enricher reading from source
func New(source TimeSeriesSource) *Enricher {
	return &Enricher{source: source}
}

// Window is the aggregate of one item's recent samples for a side.
type Window struct {
	Samples     int
	TotalVolume int64
	TotalPrice  decimal.Decimal
	ValidPrices int
}

// Fold aggregates the last SampleWindow samples for side.
func Fold(samples []models.TimeSeriesSample, side models.Side) Window {
	if len(samples) > SampleWindow {
		samples = samples[len(samples)-SampleWindow:]
	}

	w := Window{Samples: len(samples), TotalPrice: decimal.Zero}
	for _, sample := range samples {
		w.TotalVolume += sample.Volume(side)
		if p, ok := sample.AvgPrice(side); ok {
			w.TotalPrice = w.TotalPrice.Add(p)
			w.ValidPrices++
		}
	}
	return w
}

// Averages returns the average price and fixed-window average volume.
// ok is false when the window had no volume or no priced samples.
func (w Window) Averages() (avgPrice decimal.Decimal, volume int, ok bool) {
	if w.TotalVolume == 0 || w.ValidPrices == 0 {
		return decimal.Zero, 0, false
	}
	avgPrice = w.TotalPrice.Div(decimal.NewFromInt(int64(w.ValidPrices)))
	volume = int(w.TotalVolume / SampleWindow)
	return avgPrice, volume, true
}

// Enrich fetches each item's history for side and returns, in input order,
// the items that traded recently with their averages applied. Items are
// mutated in place. A fetch failure aborts the whole enrichment.
func (e *Enricher) Enrich(ctx context.Context, items []*models.Item, side models.Side) ([]*models.Item, error) {
	enriched := make([]*models.Item, 0, len(items))

	for _, item := range items {
		samples, err := e.source.TimeSeries(ctx, side.Timestep(), item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to enrich %s side: %w", side, err)
		}

		w := Fold(samples, side)
		avgPrice, volume, ok := w.Averages()
		if !ok {
			if w.TotalVolume == 0 {
				logger.Debug("Dropping %s (%d): no %s volume in last %d samples", item.Name, item.ID, side, w.Samples)
			} else {
				logger.Debug("Dropping %s (%d): %d %s volume but no average price", item.Name, item.ID, w.TotalVolume, side)
			}
			continue
		}

		item.SetEnrichment(side, avgPrice, volume)
		enriched = append(enriched, item)
	}

	return enriched, nil
}
