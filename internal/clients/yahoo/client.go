// Package yahoo provides a Yahoo Finance client for historical prices and
// symbol validation.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/statarb/internal/domain"
)

// Client is a Yahoo Finance API client
type Client struct {
	client  *http.Client
	baseURL string
	log     zerolog.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: "https://query1.finance.yahoo.com",
		log:     log.With().Str("client", "yahoo").Logger(),
	}
}

// NewClientWithBaseURL creates a client against a custom base URL (tests).
func NewClientWithBaseURL(baseURL string, log zerolog.Logger) *Client {
	c := NewClient(log)
	c.baseURL = baseURL
	return c
}

// chartResponse is the shape of the v8 chart API response.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// GetDailyPrices fetches daily adjusted-close prices for a symbol over the
// [start, end] calendar date range (YYYY-MM-DD, inclusive). Retries with
// exponential backoff on transient failures.
func (c *Client) GetDailyPrices(ctx context.Context, symbol, start, end string) (domain.PriceSeries, error) {
	const maxRetries = 3

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		series, err := c.fetchDailyPrices(ctx, symbol, start, end)
		if err == nil {
			return series, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return domain.PriceSeries{}, ctx.Err()
		}

		if attempt < maxRetries-1 {
			waitTime := time.Duration(1<<uint(attempt)) * time.Second // exponential backoff
			c.log.Warn().Err(err).
				Str("symbol", symbol).
				Int("attempt", attempt+1).
				Dur("wait", waitTime).
				Msg("Failed to fetch prices, retrying")

			select {
			case <-time.After(waitTime):
			case <-ctx.Done():
				return domain.PriceSeries{}, ctx.Err()
			}
		}
	}

	return domain.PriceSeries{}, fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *Client) fetchDailyPrices(ctx context.Context, symbol, start, end string) (domain.PriceSeries, error) {
	startTime, err := time.Parse(domain.DateFormat, start)
	if err != nil {
		return domain.PriceSeries{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	endTime, err := time.Parse(domain.DateFormat, end)
	if err != nil {
		return domain.PriceSeries{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol))

	params := url.Values{}
	params.Add("interval", "1d")
	params.Add("period1", fmt.Sprintf("%d", startTime.Unix()))
	// period2 is exclusive; add a day so the end date is included
	params.Add("period2", fmt.Sprintf("%d", endTime.AddDate(0, 0, 1).Unix()))
	params.Add("events", "div,splits")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.PriceSeries{}, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.PriceSeries{}, fmt.Errorf("failed to fetch historical data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.PriceSeries{}, fmt.Errorf("Yahoo Finance API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.PriceSeries{}, fmt.Errorf("failed to read response body: %w", err)
	}

	var result chartResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return domain.PriceSeries{}, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Chart.Error != nil {
		return domain.PriceSeries{}, fmt.Errorf("Yahoo Finance API error: %v", result.Chart.Error)
	}

	if len(result.Chart.Result) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("No historical data returned")
		return domain.PriceSeries{Symbol: symbol}, nil
	}

	chartData := result.Chart.Result[0]
	if len(chartData.Indicators.Quote) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("No quote data in response")
		return domain.PriceSeries{Symbol: symbol}, nil
	}

	closes := chartData.Indicators.Quote[0].Close

	// Prefer adjusted closes when present
	var adjCloses []float64
	if len(chartData.Indicators.AdjClose) > 0 {
		adjCloses = chartData.Indicators.AdjClose[0].AdjClose
	}

	series := domain.PriceSeries{Symbol: symbol}
	for i, ts := range chartData.Timestamp {
		if i >= len(closes) {
			break
		}

		price := closes[i]
		if i < len(adjCloses) && adjCloses[i] != 0 {
			price = adjCloses[i]
		}

		// Yahoo sometimes returns null values, decoded as 0
		if price == 0 {
			continue
		}

		series.Points = append(series.Points, domain.PricePoint{
			Date:     time.Unix(ts, 0).UTC().Format(domain.DateFormat),
			AdjClose: price,
		})
	}

	c.log.Debug().
		Str("symbol", symbol).
		Str("start", start).
		Str("end", end).
		Int("count", len(series.Points)).
		Msg("Fetched historical prices")

	return series, nil
}

// quoteResponse is the shape of the v7 quote API response.
type quoteResponse struct {
	QuoteResponse struct {
		Result []map[string]interface{} `json:"result"`
		Error  interface{}              `json:"error"`
	} `json:"quoteResponse"`
}

// ValidateSymbol checks whether a symbol exists on Yahoo Finance and returns
// its long name when available.
func (c *Client) ValidateSymbol(ctx context.Context, symbol string) (bool, string, error) {
	reqURL := c.baseURL + "/v7/finance/quote"

	params := url.Values{}
	params.Add("symbols", symbol)
	params.Add("fields", "symbol,longName,shortName,quoteType")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL+"?"+params.Encode(), nil)
	if err != nil {
		return false, "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, "", fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return false, "", fmt.Errorf("Yahoo Finance API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, "", fmt.Errorf("failed to read response body: %w", err)
	}

	var result quoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return false, "", fmt.Errorf("failed to parse response: %w", err)
	}

	if result.QuoteResponse.Error != nil || len(result.QuoteResponse.Result) == 0 {
		return false, "", nil
	}

	info := result.QuoteResponse.Result[0]
	name := getString(info, "longName")
	if name == "" {
		name = getString(info, "shortName")
	}
	if name == "" {
		name = symbol
	}

	return true, name, nil
}

func getString(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok && val != nil {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}
