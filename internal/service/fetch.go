package service

import (
	"context"
	"errors"

	"github.com/rcalvet/insider-radar/internal/domain"
	"github.com/rcalvet/insider-radar/pkg/logger"
	"github.com/rcalvet/insider-radar/pkg/metrics"
	"go.uber.org/zap"
)

// TransactionSource is the insider-transaction collaborator. The
// production implementation is ingestion.FinnhubClient.
type TransactionSource interface {
	InsiderTransactions(ctx context.Context, ticker string) ([]domain.Transaction, error)
}

type FetchService struct {
	source TransactionSource
}

func NewFetchService(source TransactionSource) *FetchService {
	return &FetchService{source: source}
}

// FetchMany fetches every ticker sequentially and concatenates the
// normalized records in input order. A ticker that fails or has no
// filings contributes nothing to the combined slice; its outcome
// records why, so failures stay inspectable instead of vanishing into
// logs.
func (s *FetchService) FetchMany(ctx context.Context, tickers []string) ([]domain.Transaction, []domain.FetchOutcome) {
	var all []domain.Transaction
	outcomes := make([]domain.FetchOutcome, 0, len(tickers))

	for _, ticker := range tickers {
		records, err := s.source.InsiderTransactions(ctx, ticker)
		if err != nil {
			var srcErr *domain.SourceError
			if !errors.As(err, &srcErr) {
				srcErr = domain.NewSourceError(domain.FailureUnavailable, ticker, err)
			}
			logger.Warn("insider fetch failed",
				zap.String("ticker", ticker),
				zap.String("kind", string(srcErr.Kind)),
				zap.Error(srcErr.Err))
			metrics.RecordFetch("error")
			outcomes = append(outcomes, domain.FetchOutcome{Ticker: ticker, Err: srcErr})
			continue
		}

		if len(records) == 0 {
			logger.Info("no insider transactions", zap.String("ticker", ticker))
			metrics.RecordFetch("empty")
		} else {
			metrics.RecordFetch("ok")
			metrics.TransactionsFetched.Add(float64(len(records)))
		}

		all = append(all, records...)
		outcomes = append(outcomes, domain.FetchOutcome{Ticker: ticker, Records: len(records)})
	}

	return all, outcomes
}
