package wiki

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rewired-gh/alchscan/internal/cache"
	"github.com/rewired-gh/alchscan/internal/fetcher"
	"github.com/rewired-gh/alchscan/internal/models"
)

func newTestClient(url string) *Client {
	f := fetcher.New(fetcher.Config{
		UserAgent: "alchscan-test",
		Timeout:   5 * time.Second,
		BaseDelay: time.Millisecond,
	})
	return NewClient(url, f, cache.New(0), time.Hour)
}

func TestMapping_Memoized(t *testing.T) {
	var requests atomic.Int32
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mapping" {
			t.Errorf("Expected path /mapping, got %s", r.URL.Path)
		}
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"examine": "Fabulously ancient mage protection enchanted in the 3rd Age.", "id": 10344, "members": true, "lowalch": 20200, "limit": 8, "value": 50500, "highalch": 30300, "icon": "3rd age amulet.png", "name": "3rd age amulet"},
			{"id": 561, "name": "Nature rune", "highalch": 108, "limit": 18000}
		]`))
	}))
	defer mockServer.Close()

	client := newTestClient(mockServer.URL)
	ctx := context.Background()

	entries, err := client.Mapping(ctx)
	if err != nil {
		t.Fatalf("Mapping failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != 10344 || entries[0].Name != "3rd age amulet" || entries[0].BuyLimit() != 8 {
		t.Errorf("Unexpected first entry: %+v", entries[0])
	}
	if !entries[0].HighAlchValue().Equal(decimal.NewFromInt(30300)) {
		t.Errorf("Expected highalch 30300, got %s", entries[0].HighAlchValue())
	}

	if _, err := client.Mapping(ctx); err != nil {
		t.Fatalf("Second Mapping failed: %v", err)
	}
	if requests.Load() != 1 {
		t.Errorf("Expected mapping to be fetched once, got %d requests", requests.Load())
	}
}

func TestLatest_RealAPIFormat(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest" {
			t.Errorf("Expected path /latest, got %s", r.URL.Path)
		}
		// Items that have not traded on one side report nulls or omit the keys
		w.Write([]byte(`{"data": {
			"2": {"high": 182, "highTime": 1700000000, "low": 178, "lowTime": 1699999990},
			"6": {"high": null, "highTime": null, "low": 190000, "lowTime": 1699999000},
			"bogus": {"high": 1}
		}}`))
	}))
	defer mockServer.Close()

	snapshot, err := newTestClient(mockServer.URL).Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if len(snapshot) != 2 {
		t.Fatalf("Expected 2 entries (non-numeric key skipped), got %d", len(snapshot))
	}
	if !snapshot[2].HighPrice().Equal(decimal.NewFromInt(182)) {
		t.Errorf("Expected high 182, got %s", snapshot[2].HighPrice())
	}
	if !snapshot[6].HighPrice().IsZero() {
		t.Errorf("Expected null high to default to 0, got %s", snapshot[6].HighPrice())
	}
}

func TestTimeSeries_QueryParameters(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/timeseries" {
			t.Errorf("Expected path /timeseries, got %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("timestep") != "5m" {
			t.Errorf("Expected timestep=5m, got %s", query.Get("timestep"))
		}
		if query.Get("id") != "4151" {
			t.Errorf("Expected id=4151, got %s", query.Get("id"))
		}
		w.Write([]byte(`{"data": [
			{"timestamp": 1700000000, "avgHighPrice": 1500000, "avgLowPrice": 1490000, "highPriceVolume": 12, "lowPriceVolume": 30},
			{"timestamp": 1700000300, "avgHighPrice": null, "avgLowPrice": 1495000, "highPriceVolume": 0, "lowPriceVolume": 8}
		], "itemId": 4151}`))
	}))
	defer mockServer.Close()

	samples, err := newTestClient(mockServer.URL).TimeSeries(context.Background(), models.HighSide.Timestep(), 4151)
	if err != nil {
		t.Fatalf("TimeSeries failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("Expected 2 samples, got %d", len(samples))
	}
	if _, ok := samples[1].AvgPrice(models.HighSide); ok {
		t.Error("Expected null avgHighPrice to be absent")
	}
	if samples[0].Volume(models.LowSide) != 30 {
		t.Errorf("Expected low volume 30, got %d", samples[0].Volume(models.LowSide))
	}
}

func TestLatest_FetchErrorPropagates(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer mockServer.Close()

	_, err := newTestClient(mockServer.URL).Latest(context.Background())

	var fetchErr *fetcher.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected wrapped *FetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", fetchErr.StatusCode)
	}
}

func TestLatest_DecodeError(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer mockServer.Close()

	if _, err := newTestClient(mockServer.URL).Latest(context.Background()); err == nil {
		t.Error("Expected decode error for non-JSON body")
	}
}
