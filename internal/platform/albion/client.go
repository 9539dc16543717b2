// Package albion is the REST client for the Albion Online Data Project API,
// which provides current price snapshots and price history per item and city.
package albion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"albionflip/internal/domain"
)

// Client is the REST client for the price service. All calls share a single
// rate limiter so snapshot and history traffic together stay under the API's
// politeness limit.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retries    int
	logger     *slog.Logger
}

// ClientConfig configures the API client.
type ClientConfig struct {
	// BaseURL is the API root, e.g. "https://east.albion-online-data.com".
	BaseURL string
	// RequestsPerSecond caps the outbound request rate.
	RequestsPerSecond float64
	// HistoryRetries is the number of additional attempts after a transient
	// history-lookup failure. Snapshot fetches are never retried; they are
	// fatal for the run.
	HistoryRetries int
	Logger         *slog.Logger
}

// NewClient creates a new Data Project API client.
func NewClient(cfg ClientConfig) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		retries: cfg.HistoryRetries,
		logger:  cfg.Logger.With(slog.String("component", "albion_client")),
	}
}

// GetPrices fetches the current snapshot for all items across all cities in a
// single request. Quality 2 only, matching the scanner's assumptions.
func (c *Client) GetPrices(ctx context.Context, items, cities []string) ([]domain.PriceQuote, error) {
	if len(items) == 0 || len(cities) == 0 {
		return nil, fmt.Errorf("albion: get prices: %w", domain.ErrNoQuotes)
	}

	params := url.Values{}
	params.Set("locations", strings.Join(cities, ","))
	params.Set("qualities", "2")

	path := fmt.Sprintf("/api/v2/stats/prices/%s.json?%s",
		url.PathEscape(strings.Join(items, ",")), params.Encode())

	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("albion: get prices: %w", err)
	}

	var rows []apiPrice
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("albion: decode prices: %w", err)
	}

	quotes := make([]domain.PriceQuote, 0, len(rows))
	for _, r := range rows {
		quotes = append(quotes, r.toQuote())
	}
	return quotes, nil
}

// GetHistory fetches the historical fallback price for one (item, city) pair.
// Failures never abort a run: transport errors and non-200 statuses come back
// as transient results, an empty history as unavailable. Transient failures
// are retried up to the configured count, then downgraded to unavailable by
// the caller.
func (c *Client) GetHistory(ctx context.Context, itemID, city string, timeScaleHours int) domain.HistoryResult {
	params := url.Values{}
	params.Set("locations", city)
	params.Set("qualities", "2")
	params.Set("time-scale", strconv.Itoa(timeScaleHours))

	path := fmt.Sprintf("/api/v2/stats/history/%s.json?%s",
		url.PathEscape(itemID), params.Encode())

	var res domain.HistoryResult
	for attempt := 0; attempt <= c.retries; attempt++ {
		res = c.fetchHistory(ctx, path)
		if res.Status != domain.HistoryTransientErr {
			return res
		}
		if ctx.Err() != nil {
			return domain.HistoryError(ctx.Err())
		}
		c.logger.Debug("history lookup retry",
			slog.String("item", itemID),
			slog.String("city", city),
			slog.Int("attempt", attempt+1),
			slog.String("error", res.Err.Error()),
		)
	}
	return res
}

func (c *Client) fetchHistory(ctx context.Context, path string) domain.HistoryResult {
	body, err := c.doGet(ctx, path)
	if err != nil {
		return domain.HistoryError(err)
	}

	entries, err := decodeHistory(body)
	if err != nil {
		return domain.HistoryError(fmt.Errorf("decode history: %w", err))
	}

	price := meanPositiveSell(entries)
	if price <= 0 {
		return domain.HistoryNone()
	}
	return domain.HistoryValue(price)
}

// doGet sends a rate-limited GET request to the API.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
