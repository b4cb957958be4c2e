package api

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rcalvet/insider-radar/internal/domain"
	"github.com/rcalvet/insider-radar/internal/service"
	"github.com/rcalvet/insider-radar/internal/storage/cache"
	"github.com/rcalvet/insider-radar/internal/storage/postgres"
	"github.com/rcalvet/insider-radar/pkg/logger"
)

// noMatchesMessage is returned instead of an error when a window simply
// contains no relevant filings.
const noMatchesMessage = "no matching transactions"

type Handler struct {
	reports *service.ReportService
	fetcher *service.FetchService

	db    *postgres.DB
	cache *cache.RedisCache

	defaultTickers []string
	windowDays     int
}

// NewHandler wires the interactive surface. db and cache may be nil;
// the report endpoints work without them and readiness simply skips the
// missing service.
func NewHandler(
	reports *service.ReportService,
	fetcher *service.FetchService,
	db *postgres.DB,
	cacheService *cache.RedisCache,
	defaultTickers []string,
	windowDays int,
) *Handler {
	return &Handler{
		reports:        reports,
		fetcher:        fetcher,
		db:             db,
		cache:          cacheService,
		defaultTickers: defaultTickers,
		windowDays:     windowDays,
	}
}

// GetReport builds a report for the requested tickers without
// publishing it. tickers is a comma-separated list, defaulting to the
// configured watchlist; days defaults to the interactive window.
func (h *Handler) GetReport(c *fiber.Ctx) error {
	start := time.Now()

	tickers := h.defaultTickers
	if raw := c.Query("tickers"); raw != "" {
		tickers = splitTickers(raw)
	}
	if len(tickers) == 0 {
		return badRequest(c, "at least one ticker is required")
	}

	days := c.QueryInt("days", h.windowDays)
	if days <= 0 {
		return badRequest(c, "days must be a positive number")
	}

	logger.Info("building interactive report",
		zap.Strings("tickers", tickers),
		zap.Int("days", days),
		zap.String("request_id", getRequestID(c)))

	report := h.reports.BuildReport(c.Context(), tickers, days)

	response := ReportResponse{
		GeneratedAt:     report.GeneratedAt,
		WindowDays:      report.WindowDays,
		Purchases:       report.Purchases,
		Sales:           report.Sales,
		PurchaseSummary: report.PurchaseSummary,
		SaleSummary:     report.SaleSummary,
		Failures:        fetchFailures(report.Fetches),
		ProcessingTime:  time.Since(start).String(),
	}
	if report.Empty() {
		response.Message = noMatchesMessage
	}

	return c.JSON(response)
}

// GetTickerTransactions returns one ticker's classified transactions
// within the window, without summaries or share counts.
func (h *Handler) GetTickerTransactions(c *fiber.Ctx) error {
	ticker := strings.ToUpper(strings.TrimSpace(c.Params("ticker")))
	if ticker == "" {
		return badRequest(c, "ticker is required")
	}

	days := c.QueryInt("days", h.windowDays)
	if days <= 0 {
		return badRequest(c, "days must be a positive number")
	}

	records, outcomes := h.fetcher.FetchMany(c.Context(), []string{ticker})
	if len(outcomes) == 1 && outcomes[0].Err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error:     "fetching transactions for " + ticker + ": " + string(outcomes[0].Err.Kind),
			Code:      fiber.StatusBadGateway,
			RequestID: getRequestID(c),
			Timestamp: time.Now(),
		})
	}

	now := time.Now()
	purchases, sales := service.Classify(records)
	purchases = service.FilterSince(purchases, days, now)
	sales = service.FilterSince(sales, days, now)

	response := TickerTransactionsResponse{
		Ticker:     ticker,
		WindowDays: days,
		Purchases:  service.FormatForDisplay(purchases),
		Sales:      service.FormatForDisplay(sales),
		Count:      len(purchases) + len(sales),
	}
	if response.Count == 0 {
		response.Message = noMatchesMessage
	}

	return c.JSON(response)
}

// PublishReport runs the full batch pipeline, spreadsheet write
// included. Admin-only.
func (h *Handler) PublishReport(c *fiber.Ctx) error {
	start := time.Now()

	logger.Info("publish requested",
		zap.String("request_id", getRequestID(c)))

	report, err := h.reports.Run(c.Context(), h.defaultTickers)
	if err != nil {
		logger.Error("publish run failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error:     "publishing report: " + err.Error(),
			Code:      fiber.StatusBadGateway,
			RequestID: getRequestID(c),
			Timestamp: time.Now(),
		})
	}

	return c.JSON(PublishResponse{
		Status:     "published",
		Purchases:  len(report.Purchases),
		Sales:      len(report.Sales),
		WindowDays: report.WindowDays,
		Duration:   time.Since(start).String(),
	})
}

func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "healthy",
		Version:   "1.0.0",
		Timestamp: time.Now(),
	})
}

// ReadinessCheck probes the optional backends. A deployment without
// redis or postgres is still ready.
func (h *Handler) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	services := make(map[string]ServiceHealth)

	if h.db != nil {
		dbStart := time.Now()
		if err := h.db.HealthCheck(ctx); err != nil {
			services["database"] = ServiceHealth{Status: "unhealthy", Error: err.Error()}
		} else {
			services["database"] = ServiceHealth{Status: "healthy", Latency: time.Since(dbStart).String()}
		}
	}

	if h.cache != nil {
		redisStart := time.Now()
		if err := h.cache.HealthCheck(ctx); err != nil {
			services["redis"] = ServiceHealth{Status: "unhealthy", Error: err.Error()}
		} else {
			services["redis"] = ServiceHealth{Status: "healthy", Latency: time.Since(redisStart).String()}
		}
	}

	status := "ready"
	for _, svc := range services {
		if svc.Status != "healthy" {
			status = "not_ready"
			break
		}
	}

	response := HealthResponse{
		Status:    status,
		Version:   "1.0.0",
		Timestamp: time.Now(),
		Services:  services,
	}

	if status != "ready" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(response)
	}
	return c.JSON(response)
}

func fetchFailures(outcomes []domain.FetchOutcome) []FetchFailure {
	var failures []FetchFailure
	for _, o := range outcomes {
		if o.Err != nil {
			failures = append(failures, FetchFailure{Ticker: o.Ticker, Kind: string(o.Err.Kind)})
		}
	}
	return failures
}

func splitTickers(raw string) []string {
	var tickers []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:     message,
		Code:      fiber.StatusBadRequest,
		RequestID: getRequestID(c),
		Timestamp: time.Now(),
	})
}

func getRequestID(c *fiber.Ctx) string {
	if id := c.Locals("requestID"); id != nil {
		return id.(string)
	}
	return ""
}
