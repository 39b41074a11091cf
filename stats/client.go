// Package stats serves live protocol statistics from the backend analytics
// API: networks, integration partners, token supply, money-market assets,
// and recent orderbook activity, cached with a TTL.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Config configures the analytics backend client.
type Config struct {
	// BaseURL is the analytics API root, e.g. "https://api.solstice.fi".
	BaseURL string
	// Timeout bounds each request. Default: 10s.
	Timeout time.Duration
	// MaxBytes caps response bodies. Default: 1 MiB.
	MaxBytes int64
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
	// Logger overrides the default slog logger.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 1 << 20
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
}

// Client reads the analytics API. Each endpoint is one bounded GET; there is
// no retry here, a failed call is fatal to that field only and the caller
// substitutes its zero default.
type Client struct {
	cfg Config
}

// NewClient creates an analytics client.
func NewClient(cfg Config) *Client {
	cfg.defaults()
	return &Client{cfg: cfg}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("get %s: status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBytes))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Chains returns the network identifiers the protocol is deployed on.
func (c *Client) Chains(ctx context.Context) ([]string, error) {
	var payload struct {
		Chains []string `json:"chains"`
	}
	if err := c.get(ctx, "/v1/chains", &payload); err != nil {
		return nil, err
	}
	return payload.Chains, nil
}

// Partners returns the registered integration partner addresses.
func (c *Client) Partners(ctx context.Context) ([]string, error) {
	var payload struct {
		Partners []string `json:"partners"`
	}
	if err := c.get(ctx, "/v1/partners", &payload); err != nil {
		return nil, err
	}
	return payload.Partners, nil
}

// SupplyRecord is the backend's token supply record before relabeling.
type SupplyRecord struct {
	Circulating float64 `json:"circulating_supply"`
	Locked      float64 `json:"locked_supply"`
	Total       float64 `json:"total_supply"`
}

// TokenSupply returns the SOLS supply breakdown.
func (c *Client) TokenSupply(ctx context.Context) (SupplyRecord, error) {
	var payload SupplyRecord
	if err := c.get(ctx, "/v1/token/supply", &payload); err != nil {
		return SupplyRecord{}, err
	}
	return payload, nil
}

// AssetRecord is one money-market asset row before relabeling.
type AssetRecord struct {
	Symbol       string  `json:"symbol"`
	TotalBalance float64 `json:"total_balance"`
	TotalBorrows float64 `json:"total_borrows"`
}

// MoneyMarketAssets returns the lending pool's asset rows.
func (c *Client) MoneyMarketAssets(ctx context.Context) ([]AssetRecord, error) {
	var payload struct {
		Assets []AssetRecord `json:"assets"`
	}
	if err := c.get(ctx, "/v1/money-market/assets", &payload); err != nil {
		return nil, err
	}
	return payload.Assets, nil
}

// RecentOrders returns the orderbook's recent order count.
func (c *Client) RecentOrders(ctx context.Context) (int, error) {
	var payload struct {
		RecentOrders int `json:"recent_orders"`
	}
	if err := c.get(ctx, "/v1/orderbook/summary", &payload); err != nil {
		return 0, err
	}
	return payload.RecentOrders, nil
}
