package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/alchscan/internal/cache"
	"github.com/rewired-gh/alchscan/internal/catalog"
	"github.com/rewired-gh/alchscan/internal/config"
	"github.com/rewired-gh/alchscan/internal/enricher"
	"github.com/rewired-gh/alchscan/internal/fetcher"
	"github.com/rewired-gh/alchscan/internal/logger"
	"github.com/rewired-gh/alchscan/internal/models"
	"github.com/rewired-gh/alchscan/internal/ranker"
	"github.com/rewired-gh/alchscan/internal/report"
	"github.com/rewired-gh/alchscan/internal/telegram"
	"github.com/rewired-gh/alchscan/internal/wiki"
)

var configPath = flag.String("config", "", "Path to configuration file (optional)")

// scanResult holds the rows that were displayed for each side.
type scanResult struct {
	High []*models.Item
	Low  []*models.Item
}

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	runID := uuid.NewString()
	if *configPath != "" {
		logger.Debug("Configuration loaded from %s", *configPath)
	}

	// Cancel in-flight requests and backoff sleeps on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, aborting scan...")
		cancel()
	}()

	store := cache.New(cfg.Cache.CleanupInterval)
	client := newWikiClient(cfg, store)

	result, err := runScan(ctx, client, cfg, os.Stdout, runID)
	if err != nil {
		logger.Fatal("Scan %s failed: %v", runID, err)
	}

	if cfg.Report.XLSXPath != "" {
		if err := report.WriteWorkbook(cfg.Report.XLSXPath, result.High, result.Low); err != nil {
			logger.Error("Failed to write workbook: %v", err)
		} else {
			logger.Info("Wrote workbook to %s", cfg.Report.XLSXPath)
		}
	}

	if cfg.Telegram.Enabled {
		telegramClient, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Error("Failed to initialize Telegram client: %v", err)
		} else if err := telegramClient.Send(runID, result.High, result.Low); err != nil {
			logger.Error("Failed to send Telegram notification: %v", err)
		} else {
			logger.Info("Sent Telegram summary")
		}
	} else {
		logger.Debug("Telegram delivery disabled")
	}
}

func newWikiClient(cfg *config.Config, store *cache.Cache) *wiki.Client {
	f := fetcher.New(fetcher.Config{
		UserAgent:         cfg.Wiki.UserAgent,
		Timeout:           cfg.Wiki.Timeout,
		MaxRetries:        cfg.Wiki.MaxRetries,
		BaseDelay:         cfg.Wiki.RetryBaseDelay,
		RequestsPerSecond: cfg.Wiki.RequestsPerSecond,
	})
	return wiki.NewClient(cfg.Wiki.BaseURL, f, store, cfg.Wiki.MappingTTL)
}

// runScan fetches, ranks and enriches, then prints both tables to out.
// Nothing is printed unless every fetch succeeded.
func runScan(ctx context.Context, client *wiki.Client, cfg *config.Config, out io.Writer, runID string) (*scanResult, error) {
	startTime := time.Now()
	logger.Info("Starting scan %s", runID)

	snapshot, err := client.Latest(ctx)
	if err != nil {
		return nil, err
	}
	mapping, err := client.Mapping(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("Fetched %d latest prices and %d mapping entries", len(snapshot), len(mapping))

	conversionCost, ok := catalog.ConversionCost(snapshot, cfg.Scan.ReagentItemID)
	if !ok {
		logger.Warn("No instant-buy price for reagent item %d, assuming zero conversion cost", cfg.Scan.ReagentItemID)
	}

	items := catalog.Build(snapshot, mapping, conversionCost, cfg.Scan.LimitCeiling)
	logger.Info("Built %d profitable candidates (conversion cost %s)", len(items), conversionCost)

	enr := enricher.New(client)

	high, err := shortlist(ctx, enr, items, models.HighSide, cfg.Scan.HighCandidates, cfg.Scan.HighMinVolume)
	if err != nil {
		return nil, err
	}
	low, err := shortlist(ctx, enr, items, models.LowSide, cfg.Scan.LowCandidates, cfg.Scan.LowMinVolume)
	if err != nil {
		return nil, err
	}

	result := &scanResult{
		High: ranker.Top(high, cfg.Scan.HighRows),
		Low:  ranker.Top(low, cfg.Scan.LowRows),
	}

	if err := report.Render(out, models.HighSide, result.High, cfg.Scan.HighRows); err != nil {
		return nil, fmt.Errorf("failed to render high table: %w", err)
	}
	if err := report.Render(out, models.LowSide, result.Low, cfg.Scan.LowRows); err != nil {
		return nil, fmt.Errorf("failed to render low table: %w", err)
	}

	logger.Info("Scan %s completed in %v (%d high, %d low)", runID, time.Since(startTime), len(result.High), len(result.Low))
	return result, nil
}

// shortlist ranks items for side, enriches the top candidates and keeps
// those above the side's volume threshold, still in rank order.
func shortlist(ctx context.Context, enr *enricher.Enricher, items []*models.Item, side models.Side, candidates, minVolume int) ([]*models.Item, error) {
	ranked := ranker.Top(ranker.ForSide(items, side), candidates)

	enriched, err := enr.Enrich(ctx, ranked, side)
	if err != nil {
		return nil, err
	}

	filtered := ranker.FilterByVolume(enriched, side, minVolume)
	logger.Debug("%s side: %d candidates, %d traded recently, %d above volume %d",
		side, len(ranked), len(enriched), len(filtered), minVolume)
	return filtered, nil
}
