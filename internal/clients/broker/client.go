// Package broker provides the HTTP client for the remote paper-trade
// backend: trade confirmation and authoritative portfolio state. The local
// ledger never depends on this backend being reachable.
package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/papertrade/internal/common"
	"github.com/bobmcallan/papertrade/internal/models"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements interfaces.TradeBackend and interfaces.PortfolioBackend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

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

// NewClient creates a broker client for the given base URL.
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

// SubmitTrade posts the trade for backend confirmation. A non-2xx response
// or malformed payload is reported as source-unavailable; the caller keeps
// its local ledger either way.
func (c *Client) SubmitTrade(ctx context.Context, req models.TradeRequest) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return models.SourceError("broker", fmt.Errorf("rate limit wait: %w", err))
	}

	body, err := json.Marshal(req)
	if err != nil {
		return models.SourceError("broker", fmt.Errorf("failed to encode trade: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/simulation/trade", bytes.NewReader(body))
	if err != nil {
		return models.SourceError("broker", fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug().
		Str("symbol", req.Symbol).
		Str("action", string(req.Action)).
		Int64("quantity", req.Quantity).
		Msg("Submitting trade to broker")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return models.SourceError("broker", fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return models.SourceError("broker",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody)))
	}
	return nil
}

// GetPortfolio fetches the authoritative portfolio snapshot.
func (c *Client) GetPortfolio(ctx context.Context) (*models.PortfolioSnapshot, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, models.SourceError("broker", fmt.Errorf("rate limit wait: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/simulation/portfolio", nil)
	if err != nil {
		return nil, models.SourceError("broker", fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.SourceError("broker", fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, models.SourceError("broker",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody)))
	}

	var snapshot models.PortfolioSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, models.SourceError("broker", fmt.Errorf("failed to decode portfolio: %w", err))
	}

	if snapshot.Portfolio.VirtualCash < 0 {
		return nil, models.SourceError("broker", fmt.Errorf("portfolio has negative cash %v", snapshot.Portfolio.VirtualCash))
	}
	for _, h := range snapshot.Holdings {
		if h.Quantity < 0 || h.AvgPrice < 0 {
			return nil, models.SourceError("broker", fmt.Errorf("holding %s has invalid quantity or price", h.Symbol))
		}
	}

	return &snapshot, nil
}
