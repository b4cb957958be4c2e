package service

import (
	"context"
	"time"

	"github.com/rcalvet/insider-radar/internal/domain"
	"github.com/rcalvet/insider-radar/pkg/logger"
	"github.com/rcalvet/insider-radar/pkg/metrics"
	"go.uber.org/zap"
)

// ShareStatsSource is the market-data collaborator. The production
// implementation is ingestion.MarketClient.
type ShareStatsSource interface {
	ShareStats(ctx context.Context, ticker string) (domain.ShareStats, error)
}

// ShareCache is the optional cache in front of the provider. A nil
// cache disables caching without changing behavior.
type ShareCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl ...time.Duration) error
}

// candidate is one step of the share-count fallback chain: an explicit
// lookup that either yields a value or passes to the next step. This
// replaces fallback-by-exception with an ordered list that tests can
// exercise directly.
type candidate struct {
	source string
	lookup func(domain.ShareStats) (int64, bool)
}

var shareCandidates = []candidate{
	{"sharesOutstanding", func(s domain.ShareStats) (int64, bool) {
		if s.SharesOutstanding == nil {
			return 0, false
		}
		return *s.SharesOutstanding, true
	}},
	{"totalSharesOutstanding", func(s domain.ShareStats) (int64, bool) {
		if s.TotalSharesOutstanding == nil {
			return 0, false
		}
		return *s.TotalSharesOutstanding, true
	}},
	{"floatShares", func(s domain.ShareStats) (int64, bool) {
		if s.FloatShares == nil {
			return 0, false
		}
		return *s.FloatShares, true
	}},
	{"marketCap/currentPrice", func(s domain.ShareStats) (int64, bool) {
		if s.MarketCap == nil || s.CurrentPrice == nil || *s.CurrentPrice <= 0 {
			return 0, false
		}
		return int64(*s.MarketCap / *s.CurrentPrice), true
	}},
}

type ShareCountService struct {
	source   ShareStatsSource
	cache    ShareCache
	cacheTTL time.Duration
}

func NewShareCountService(source ShareStatsSource, cache ShareCache, cacheTTL time.Duration) *ShareCountService {
	return &ShareCountService{
		source:   source,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Resolve returns the best-effort total-shares value for ticker. The
// candidates are tried in fixed priority order and the first present
// field wins regardless of later values. When every candidate is
// exhausted, or the provider fails, the sentinel 0 ("unknown") is
// returned and logged; a missing share count is never fatal.
func (s *ShareCountService) Resolve(ctx context.Context, ticker string) domain.ShareCount {
	cacheKey := "shares:" + ticker

	if s.cache != nil {
		var cached domain.ShareCount
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			metrics.CacheHits.Inc()
			return cached
		}
		metrics.CacheMisses.Inc()
	}

	stats, err := s.source.ShareStats(ctx, ticker)
	if err != nil {
		logger.Error("share stats fetch failed", zap.String("ticker", ticker), zap.Error(err))
		metrics.RecordResolution("none")
		return domain.ShareCount{Ticker: ticker, Shares: 0, Source: "none"}
	}

	for _, c := range shareCandidates {
		if shares, ok := c.lookup(stats); ok {
			logger.Info("share count resolved",
				zap.String("ticker", ticker),
				zap.String("source", c.source),
				zap.Int64("shares", shares))
			metrics.RecordResolution(c.source)

			count := domain.ShareCount{Ticker: ticker, Shares: shares, Source: c.source}
			if s.cache != nil {
				if err := s.cache.Set(ctx, cacheKey, count, s.cacheTTL); err != nil {
					logger.Warn("share cache write failed", zap.String("ticker", ticker), zap.Error(err))
				}
			}
			return count
		}
	}

	logger.Warn("share count unresolved, using 0", zap.String("ticker", ticker))
	metrics.RecordResolution("none")
	return domain.ShareCount{Ticker: ticker, Shares: 0, Source: "none"}
}

// ResolveMany resolves each distinct ticker independently; one
// ticker's failure never affects the others.
func (s *ShareCountService) ResolveMany(ctx context.Context, tickers []string) map[string]domain.ShareCount {
	counts := make(map[string]domain.ShareCount, len(tickers))
	for _, ticker := range tickers {
		if _, done := counts[ticker]; done {
			continue
		}
		counts[ticker] = s.Resolve(ctx, ticker)
	}
	return counts
}
