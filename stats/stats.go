package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/solstice-fi/lorebase/snapshot"
)

const snapshotTitle = "Protocol Stats"

// Supply is the relabeled SOLS supply breakdown.
type Supply struct {
	Circulating float64 `json:"circulating"`
	Locked      float64 `json:"locked"`
	Total       float64 `json:"total"`
}

// Asset is one money-market asset with supplied and borrowed totals.
type Asset struct {
	Symbol   string  `json:"symbol"`
	Supplied float64 `json:"supplied"`
	Borrowed float64 `json:"borrowed"`
}

// Stats is the combined protocol statistics payload. Every field is fetched
// independently; a field whose fetch failed holds its zero value.
type Stats struct {
	Networks     []string `json:"networks"`
	PartnerCount int      `json:"partner_count"`
	Partners     []string `json:"partners,omitempty"`
	Supply       Supply   `json:"supply"`
	MoneyMarket  []Asset  `json:"money_market,omitempty"`
	RecentOrders int      `json:"recent_orders"`
}

// ServiceConfig configures the stats service.
type ServiceConfig struct {
	// TTL is the snapshot time-to-live. Default: snapshot.DefaultTTL.
	TTL time.Duration
	// Logger overrides the default slog logger.
	Logger *slog.Logger
	// Recorder receives refresh outcomes (optional).
	Recorder snapshot.Recorder
}

func (c *ServiceConfig) defaults() {
	if c.TTL <= 0 {
		c.TTL = snapshot.DefaultTTL
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Service is the protocol stats domain.
type Service struct {
	client *Client
	cache  *snapshot.Cache[Stats]
	logger *slog.Logger
}

// NewService creates the stats service.
func NewService(client *Client, cfg ServiceConfig) *Service {
	cfg.defaults()
	s := &Service{client: client, logger: cfg.Logger}
	opts := []snapshot.Option[Stats]{
		snapshot.WithLogger[Stats](cfg.Logger),
	}
	if cfg.Recorder != nil {
		opts = append(opts, snapshot.WithRecorder[Stats](cfg.Recorder))
	}
	s.cache = snapshot.New("stats", cfg.TTL, s.fetch, opts...)
	return s
}

// fetch runs the five backend calls concurrently. Each is isolated: a
// failure logs Warn and leaves that field at its zero default without
// touching the others. The fetch itself therefore never fails.
func (s *Service) fetch(ctx context.Context) (string, Stats, error) {
	var (
		stats Stats
		wg    sync.WaitGroup
	)

	fields := []struct {
		name string
		call func(context.Context) error
	}{
		{"chains", func(ctx context.Context) error {
			networks, err := s.client.Chains(ctx)
			stats.Networks = networks
			return err
		}},
		{"partners", func(ctx context.Context) error {
			partners, err := s.client.Partners(ctx)
			stats.Partners = partners
			stats.PartnerCount = len(partners)
			return err
		}},
		{"supply", func(ctx context.Context) error {
			supply, err := s.client.TokenSupply(ctx)
			stats.Supply = Supply{
				Circulating: supply.Circulating,
				Locked:      supply.Locked,
				Total:       supply.Total,
			}
			return err
		}},
		{"money_market", func(ctx context.Context) error {
			assets, err := s.client.MoneyMarketAssets(ctx)
			stats.MoneyMarket = relabelAssets(assets)
			return err
		}},
		{"recent_orders", func(ctx context.Context) error {
			count, err := s.client.RecentOrders(ctx)
			stats.RecentOrders = count
			return err
		}},
	}

	wg.Add(len(fields))
	for _, field := range fields {
		go func() {
			defer wg.Done()
			if err := field.call(ctx); err != nil {
				s.logger.WarnContext(ctx, "stats field fetch failed, using zero default",
					"field", field.name, "error", err)
			}
		}()
	}
	wg.Wait()

	return snapshotTitle, stats, nil
}

// relabelAssets maps backend balance naming onto supplied/borrowed.
func relabelAssets(assets []AssetRecord) []Asset {
	if len(assets) == 0 {
		return nil
	}
	out := make([]Asset, 0, len(assets))
	for _, a := range assets {
		out = append(out, Asset{Symbol: a.Symbol, Supplied: a.TotalBalance, Borrowed: a.TotalBorrows})
	}
	return out
}

// Overview is the stats snapshot as served to callers.
type Overview struct {
	Title     string    `json:"title"`
	FetchedAt time.Time `json:"fetched_at"`
	Stats     Stats     `json:"stats"`
}

// Overview returns a fresh-enough stats snapshot.
func (s *Service) Overview(ctx context.Context) Overview {
	snap := s.cache.Get(ctx, false)
	return Overview{Title: snap.Title, FetchedAt: snap.FetchedAt, Stats: snap.Data}
}

// RefreshResult reports an explicit refresh operation.
type RefreshResult struct {
	OK        bool      `json:"ok"`
	Message   string    `json:"message"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
}

// Refresh forces a live fetch. With per-field isolation the fetch itself
// cannot fail, so failure here means the context was canceled.
func (s *Service) Refresh(ctx context.Context) RefreshResult {
	snap, err := s.cache.Refresh(ctx)
	if err != nil {
		return RefreshResult{OK: false, Message: fmt.Sprintf("stats refresh failed: %v", err)}
	}
	return RefreshResult{
		OK:        true,
		Message:   fmt.Sprintf("stats refreshed: %d networks, %d partners", len(snap.Data.Networks), snap.Data.PartnerCount),
		FetchedAt: snap.FetchedAt,
	}
}
