// Package wiki decodes the OSRS Wiki real-time prices API.
//
// Three endpoints are used: /mapping (static item metadata, memoized),
// /latest (the instant price snapshot) and /timeseries (per-item history
// at a 5m or 1h step). Requests go through a retrying Fetcher.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rewired-gh/alchscan/internal/cache"
	"github.com/rewired-gh/alchscan/internal/logger"
	"github.com/rewired-gh/alchscan/internal/models"
)

const mappingCacheKey = "mappingData"

// Fetcher returns the body of a GET request.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Client provides access to the prices API
type Client struct {
	baseURL    string
	fetcher    Fetcher
	cache      *cache.Cache
	mappingTTL time.Duration
}

// NewClient creates a new prices API client. The mapping payload is
// memoized in c for mappingTTL.
func NewClient(baseURL string, f Fetcher, c *cache.Cache, mappingTTL time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		fetcher:    f,
		cache:      c,
		mappingTTL: mappingTTL,
	}
}

// Mapping returns item metadata for every tradeable item.
func (c *Client) Mapping(ctx context.Context) ([]models.MappingEntry, error) {
	return cache.GetOrFetch(c.cache, mappingCacheKey, func() ([]models.MappingEntry, error) {
		body, err := c.fetcher.Fetch(ctx, c.baseURL+"/mapping")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch mapping: %w", err)
		}

		var entries []models.MappingEntry
		if err := json.Unmarshal([]byte(body), &entries); err != nil {
			return nil, fmt.Errorf("failed to decode mapping: %w", err)
		}
		logger.Debug("Fetched mapping for %d items", len(entries))
		return entries, nil
	}, c.mappingTTL)
}

// Latest returns the instant price snapshot keyed by item ID.
func (c *Client) Latest(ctx context.Context) (map[int]models.PriceSnapshot, error) {
	body, err := c.fetcher.Fetch(ctx, c.baseURL+"/latest")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest prices: %w", err)
	}

	var response struct {
		Data map[string]models.PriceSnapshot `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &response); err != nil {
		return nil, fmt.Errorf("failed to decode latest prices: %w", err)
	}

	snapshot := make(map[int]models.PriceSnapshot, len(response.Data))
	for key, entry := range response.Data {
		id, err := strconv.Atoi(key)
		if err != nil {
			logger.Warn("Skipping latest price entry with non-numeric id %q", key)
			continue
		}
		snapshot[id] = entry
	}
	return snapshot, nil
}

// TimeSeries returns the history of one item at the given step ("5m" or "1h"),
// oldest sample first.
func (c *Client) TimeSeries(ctx context.Context, timestep string, itemID int) ([]models.TimeSeriesSample, error) {
	query := url.Values{}
	query.Set("timestep", timestep)
	query.Set("id", strconv.Itoa(itemID))

	body, err := c.fetcher.Fetch(ctx, c.baseURL+"/timeseries?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch time series for item %d: %w", itemID, err)
	}

	var response struct {
		Data []models.TimeSeriesSample `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &response); err != nil {
		return nil, fmt.Errorf("failed to decode time series for item %d: %w", itemID, err)
	}
	return response.Data, nil
}
