// Package marketdata provides the HTTP client for an external market-data
// API serving real-time quotes and chart history. All failures, transport or
// schema, surface as models.ErrSourceUnavailable so callers fall back to
// synthetic data.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/papertrade/internal/common"
	"github.com/bobmcallan/papertrade/internal/models"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements interfaces.QuoteSource and interfaces.HistorySource.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithAPIKey sets the API key sent with each request
func WithAPIKey(apiKey string) ClientOption {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a market-data client for the given base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// quoteResponse is the upstream quote payload.
type quoteResponse struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	MarketCap     int64   `json:"market_cap"`
	DayHigh       float64 `json:"day_high"`
	DayLow        float64 `json:"day_low"`
	Open          float64 `json:"open"`
	PrevClose     float64 `json:"prev_close"`
}

// historyResponse is the upstream chart payload.
type historyResponse struct {
	Symbol string    `json:"symbol"`
	Period string    `json:"period"`
	Labels []string  `json:"labels"`
	Points []float64 `json:"points"`
}

// GetQuote fetches the current quote for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	var payload quoteResponse
	path := fmt.Sprintf("/api/stocks/price/%s", url.PathEscape(symbol))
	if err := c.get(ctx, path, nil, &payload); err != nil {
		return nil, models.SourceError("marketdata", err)
	}

	if payload.Price <= 0 {
		return nil, models.SourceError("marketdata", fmt.Errorf("quote for %s has non-positive price %v", symbol, payload.Price))
	}

	quote := &models.Quote{
		Symbol:        symbol,
		Name:          payload.Name,
		Price:         payload.Price,
		Change:        payload.Change,
		ChangePercent: payload.ChangePercent,
		Volume:        payload.Volume,
		MarketCap:     payload.MarketCap,
		DayHigh:       payload.DayHigh,
		DayLow:        payload.DayLow,
		Open:          payload.Open,
		PrevClose:     payload.PrevClose,
		Timestamp:     time.Now(),
	}
	if quote.Name == "" {
		quote.Name = symbol
	}
	return quote, nil
}

// GetChartHistory fetches the labeled chart series for a symbol and period.
func (c *Client) GetChartHistory(ctx context.Context, symbol string, period models.Period) (*models.ChartSeries, error) {
	params := url.Values{}
	params.Set("period", string(period))

	var payload historyResponse
	path := fmt.Sprintf("/api/stocks/history/%s", url.PathEscape(symbol))
	if err := c.get(ctx, path, params, &payload); err != nil {
		return nil, models.SourceError("marketdata", err)
	}

	if len(payload.Points) == 0 || len(payload.Labels) != len(payload.Points) {
		return nil, models.SourceError("marketdata",
			fmt.Errorf("history for %s has %d labels and %d points", symbol, len(payload.Labels), len(payload.Points)))
	}
	for _, p := range payload.Points {
		if p <= 0 {
			return nil, models.SourceError("marketdata", fmt.Errorf("history for %s contains non-positive price", symbol))
		}
	}

	return &models.ChartSeries{
		Symbol:    symbol,
		Period:    period,
		Labels:    payload.Labels,
		Points:    payload.Points,
		Generated: time.Now(),
	}, nil
}

// get performs a rate-limited GET request.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Market data request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d on %s: %s", resp.StatusCode, path, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
