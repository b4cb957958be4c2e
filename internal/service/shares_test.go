package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rcalvet/insider-radar/internal/domain"
)

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

type fakeStatsSource struct {
	stats map[string]domain.ShareStats
	errs  map[string]error
	calls []string
}

func (f *fakeStatsSource) ShareStats(ctx context.Context, ticker string) (domain.ShareStats, error) {
	f.calls = append(f.calls, ticker)
	if err, ok := f.errs[ticker]; ok {
		return domain.ShareStats{}, err
	}
	return f.stats[ticker], nil
}

func newShareService(src ShareStatsSource) *ShareCountService {
	return NewShareCountService(src, nil, time.Hour)
}

func TestResolveFallbackOrder(t *testing.T) {
	tests := []struct {
		name       string
		stats      domain.ShareStats
		wantShares int64
		wantSource string
	}{
		{
			name: "first candidate wins over later values",
			stats: domain.ShareStats{
				SharesOutstanding:      i64(1000000),
				TotalSharesOutstanding: i64(999),
				FloatShares:            i64(1),
			},
			wantShares: 1000000,
			wantSource: "sharesOutstanding",
		},
		{
			name: "alternate field when primary missing",
			stats: domain.ShareStats{
				TotalSharesOutstanding: i64(2000000),
				FloatShares:            i64(1),
			},
			wantShares: 2000000,
			wantSource: "totalSharesOutstanding",
		},
		{
			name:       "float shares third",
			stats:      domain.ShareStats{FloatShares: i64(900000)},
			wantShares: 900000,
			wantSource: "floatShares",
		},
		{
			name: "computed estimate truncates",
			stats: domain.ShareStats{
				MarketCap:    f64(1000001),
				CurrentPrice: f64(3),
			},
			wantShares: 333333,
			wantSource: "marketCap/currentPrice",
		},
		{
			name:       "all exhausted yields sentinel",
			stats:      domain.ShareStats{},
			wantShares: 0,
			wantSource: "none",
		},
		{
			name: "estimate needs both inputs",
			stats: domain.ShareStats{
				MarketCap: f64(1000000),
			},
			wantShares: 0,
			wantSource: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeStatsSource{stats: map[string]domain.ShareStats{"AAPL": tt.stats}}
			got := newShareService(src).Resolve(context.Background(), "AAPL")

			if got.Shares != tt.wantShares {
				t.Errorf("shares = %d, want %d", got.Shares, tt.wantShares)
			}
			if got.Source != tt.wantSource {
				t.Errorf("source = %q, want %q", got.Source, tt.wantSource)
			}
		})
	}
}

func TestResolveProviderFailureYieldsSentinel(t *testing.T) {
	src := &fakeStatsSource{errs: map[string]error{
		"AAPL": domain.NewSourceError(domain.FailureUnavailable, "AAPL", errors.New("timeout")),
	}}

	got := newShareService(src).Resolve(context.Background(), "AAPL")

	if got.Shares != 0 || got.Source != "none" {
		t.Errorf("provider failure must degrade to sentinel, got %+v", got)
	}
}

func TestResolveManyIsolatesFailures(t *testing.T) {
	src := &fakeStatsSource{
		stats: map[string]domain.ShareStats{
			"AAPL": {SharesOutstanding: i64(1000000)},
			"MSFT": {SharesOutstanding: i64(7000000)},
		},
		errs: map[string]error{
			"SOM": errors.New("connection reset"),
		},
	}

	counts := newShareService(src).ResolveMany(context.Background(), []string{"AAPL", "SOM", "MSFT"})

	if counts["AAPL"].Shares != 1000000 || counts["MSFT"].Shares != 7000000 {
		t.Errorf("healthy tickers affected by a failing one: %+v", counts)
	}
	if counts["SOM"].Shares != 0 {
		t.Errorf("failed ticker should carry the sentinel, got %+v", counts["SOM"])
	}
}

func TestResolveManyDeduplicatesTickers(t *testing.T) {
	src := &fakeStatsSource{stats: map[string]domain.ShareStats{
		"AAPL": {SharesOutstanding: i64(1000000)},
	}}

	counts := newShareService(src).ResolveMany(context.Background(), []string{"AAPL", "AAPL", "AAPL"})

	if len(src.calls) != 1 {
		t.Errorf("expected one provider call for a repeated ticker, got %d", len(src.calls))
	}
	if len(counts) != 1 {
		t.Errorf("expected one entry, got %d", len(counts))
	}
}

type fakeCache struct {
	data map[string]domain.ShareCount
	sets int
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	v, ok := c.data[key]
	if !ok {
		return errors.New("key not found")
	}
	*dest.(*domain.ShareCount) = v
	return nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl ...time.Duration) error {
	c.sets++
	c.data[key] = value.(domain.ShareCount)
	return nil
}

func TestResolveUsesCache(t *testing.T) {
	src := &fakeStatsSource{stats: map[string]domain.ShareStats{
		"AAPL": {SharesOutstanding: i64(1000000)},
	}}
	cache := &fakeCache{data: map[string]domain.ShareCount{}}
	svc := NewShareCountService(src, cache, time.Hour)

	first := svc.Resolve(context.Background(), "AAPL")
	second := svc.Resolve(context.Background(), "AAPL")

	if first != second {
		t.Errorf("cached resolution differs: %+v vs %+v", first, second)
	}
	if len(src.calls) != 1 {
		t.Errorf("expected one provider call, got %d", len(src.calls))
	}
	if cache.sets != 1 {
		t.Errorf("expected one cache write, got %d", cache.sets)
	}
}
