package service

import (
	"context"
	"time"

	"github.com/rcalvet/insider-radar/internal/domain"
	"github.com/rcalvet/insider-radar/pkg/logger"
	"github.com/rcalvet/insider-radar/pkg/metrics"
	"go.uber.org/zap"
)

// Publisher replaces the contents of the two destination worksheets
// with a report. The write is not atomic across worksheets: a failure
// mid-publish can leave one updated and the other stale.
type Publisher interface {
	Publish(ctx context.Context, report *domain.Report) error
}

// Archiver persists a run's transactions for audit. Optional; archive
// failures never fail a run.
type Archiver interface {
	SaveRun(ctx context.Context, report *domain.Report) error
}

// ReportService orchestrates one pipeline run: fetch → classify →
// date-filter → format → resolve share counts → summarize → publish.
// Execution is sequential throughout; ordering is fully determined by
// the ticker list and the stable date sort.
type ReportService struct {
	fetcher   *FetchService
	shares    *ShareCountService
	publisher Publisher
	archiver  Archiver

	windowDays int
	precision  int32
	now        func() time.Time
}

type ReportOptions struct {
	WindowDays       int
	PercentPrecision int32
	Publisher        Publisher
	Archiver         Archiver
	Now              func() time.Time
}

func NewReportService(fetcher *FetchService, shares *ShareCountService, opts ReportOptions) *ReportService {
	if opts.WindowDays <= 0 {
		opts.WindowDays = 29
	}
	if opts.PercentPrecision <= 0 {
		opts.PercentPrecision = 5
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &ReportService{
		fetcher:    fetcher,
		shares:     shares,
		publisher:  opts.Publisher,
		archiver:   opts.Archiver,
		windowDays: opts.WindowDays,
		precision:  opts.PercentPrecision,
		now:        opts.Now,
	}
}

// BuildReport runs every stage up to (not including) publishing.
// windowDays <= 0 falls back to the service default. Per-ticker
// failures degrade to empty results; BuildReport itself cannot fail.
func (s *ReportService) BuildReport(ctx context.Context, tickers []string, windowDays int) *domain.Report {
	if windowDays <= 0 {
		windowDays = s.windowDays
	}
	now := s.now()

	records, outcomes := s.fetcher.FetchMany(ctx, tickers)

	purchases, sales := Classify(records)
	purchases = FilterSince(purchases, windowDays, now)
	sales = FilterSince(sales, windowDays, now)

	// Share counts are resolved for every requested ticker, not only
	// the ones with surviving transactions, matching the batch job's
	// one-resolution-per-run contract.
	counts := s.shares.ResolveMany(ctx, tickers)

	report := &domain.Report{
		GeneratedAt:     now,
		WindowDays:      windowDays,
		Purchases:       FormatForDisplay(purchases),
		Sales:           FormatForDisplay(sales),
		PurchaseSummary: Summarize(purchases, counts, s.precision),
		SaleSummary:     Summarize(sales, counts, s.precision),
		ShareCounts:     counts,
		Fetches:         outcomes,
	}

	logger.Info("report built",
		zap.Int("tickers", len(tickers)),
		zap.Int("window_days", windowDays),
		zap.Int("purchases", len(report.Purchases)),
		zap.Int("sales", len(report.Sales)))

	return report
}

// Run is the batch entry point: build the report, archive it when an
// archiver is configured, then publish. Only the publish step can fail
// the run; everything earlier degrades per ticker.
func (s *ReportService) Run(ctx context.Context, tickers []string) (*domain.Report, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.RunDuration)

	report := s.BuildReport(ctx, tickers, s.windowDays)

	if s.archiver != nil {
		if err := s.archiver.SaveRun(ctx, report); err != nil {
			logger.Error("run archive failed", zap.Error(err))
			metrics.ArchiveInserts.WithLabelValues("error").Inc()
		} else {
			metrics.ArchiveInserts.WithLabelValues("ok").Inc()
		}
	}

	if s.publisher != nil {
		pubTimer := metrics.NewTimer()
		if err := s.publisher.Publish(ctx, report); err != nil {
			metrics.PublishErrors.Inc()
			metrics.RecordRun("error")
			return report, domain.NewSourceError(domain.FailurePublish, "", err)
		}
		pubTimer.ObserveDuration(metrics.PublishDuration)
	}

	metrics.RecordRun("ok")
	return report, nil
}
