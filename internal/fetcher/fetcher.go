// Package fetcher issues GET requests with retry and exponential backoff.
//
// Server errors (5xx) and transport failures are retried up to MaxRetries
// times, sleeping 2^attempt × BaseDelay before attempt+1. Any other non-2xx
// status fails immediately. Terminal failures are reported as *FetchError.
//
// Responses are requested with gzip or brotli encoding and decoded here.
package fetcher

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/rewired-gh/alchscan/internal/logger"
)

// FetchError is returned once a request has failed for good.
// StatusCode is zero when the last attempt failed before a response arrived.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed with status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Config holds fetcher settings
type Config struct {
	UserAgent         string
	Timeout           time.Duration
	MaxRetries        int
	BaseDelay         time.Duration
	RequestsPerSecond float64 // 0 disables client-side rate limiting
}

// Fetcher performs GET requests with retry logic
type Fetcher struct {
	client     *resty.Client
	limiter    *rate.Limiter
	maxRetries int
	baseDelay  time.Duration
}

// New creates a new Fetcher
func New(cfg Config) *Fetcher {
	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("Accept", "application/json")
	client.SetHeader("Accept-Encoding", "gzip, br")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Fetcher{
		client:     client,
		limiter:    limiter,
		maxRetries: maxRetries,
		baseDelay:  cfg.BaseDelay,
	}
}

// Fetch returns the body of a successful GET to url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	retryCount := 0

	for {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return "", &FetchError{URL: url, Err: err}
			}
		}

		logger.Debug("GET %s (attempt %d)", url, retryCount+1)
		resp, err := f.client.R().SetContext(ctx).SetDoNotParseResponse(true).Get(url)

		var lastErr *FetchError
		switch {
		case err != nil:
			logger.Warn("An exception occurred when requesting %s: %v", url, err)
			lastErr = &FetchError{URL: url, Err: err}
			if ctx.Err() != nil {
				return "", lastErr
			}
		case resp.IsSuccess():
			body, err := readBody(resp)
			if err == nil {
				return body, nil
			}
			logger.Warn("Failed to read response from %s: %v", url, err)
			lastErr = &FetchError{URL: url, Err: err}
			if ctx.Err() != nil {
				return "", lastErr
			}
		default:
			resp.RawBody().Close()
			logger.Warn("Request to %s failed with status code %d", url, resp.StatusCode())
			lastErr = &FetchError{
				URL:        url,
				StatusCode: resp.StatusCode(),
				Err:        fmt.Errorf("unexpected status %s", resp.Status()),
			}
			if resp.StatusCode() < 500 {
				return "", lastErr
			}
		}

		if retryCount >= f.maxRetries {
			return "", lastErr
		}
		retryCount++

		if err := sleep(ctx, f.backoff(retryCount)); err != nil {
			return "", &FetchError{URL: url, StatusCode: lastErr.StatusCode, Err: err}
		}
	}
}

// readBody drains and closes the raw body, undoing any content encoding.
func readBody(resp *resty.Response) (string, error) {
	raw := resp.RawBody()
	defer raw.Close()

	var reader io.Reader = raw
	switch strings.ToLower(resp.Header().Get("Content-Encoding")) {
	case "gzip":
		gz, err := gzip.NewReader(raw)
		if err != nil {
			return "", fmt.Errorf("failed to open gzip body: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(raw)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return string(body), nil
}

// backoff returns the delay before the retry numbered attempt (starting at 1).
func (f *Fetcher) backoff(attempt int) time.Duration {
	return f.baseDelay * time.Duration(1<<attempt)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
