package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/rcalvet/insider-radar/internal/config"
	"github.com/rcalvet/insider-radar/internal/domain"
	"github.com/rcalvet/insider-radar/internal/service"
	"github.com/rcalvet/insider-radar/pkg/logger"
)

type stubTxSource struct {
	records map[string][]domain.Transaction
}

func (s *stubTxSource) InsiderTransactions(ctx context.Context, ticker string) ([]domain.Transaction, error) {
	return s.records[ticker], nil
}

type stubStatsSource struct{}

func (s *stubStatsSource) ShareStats(ctx context.Context, ticker string) (domain.ShareStats, error) {
	shares := int64(1000000)
	return domain.ShareStats{SharesOutstanding: &shares}, nil
}

func newTestApp(t *testing.T, records map[string][]domain.Transaction) *fiber.App {
	t.Helper()
	logger.InitNop()

	fetcher := service.NewFetchService(&stubTxSource{records: records})
	shares := service.NewShareCountService(&stubStatsSource{}, nil, 0)
	reports := service.NewReportService(fetcher, shares, service.ReportOptions{
		WindowDays:       15,
		PercentPrecision: 5,
	})

	handler := NewHandler(reports, fetcher, nil, nil, []string{"AAPL"}, 15)

	cfg := &config.Config{
		AdminUser:       "admin",
		AdminPassword:   "test-password",
		RateLimitPerMin: 100,
	}

	app := fiber.New()
	SetupRoutes(app, handler, cfg)
	return app
}

func recentTx(ticker string, qty int64) domain.Transaction {
	return domain.Transaction{
		Name:            "Cook Timothy",
		Quantity:        qty,
		Price:           decimal.RequireFromString("150.00"),
		TransactionDate: time.Now().AddDate(0, 0, -1),
		Ticker:          ticker,
	}
}

func TestGetReport(t *testing.T) {
	app := newTestApp(t, map[string][]domain.Transaction{
		"AAPL": {recentTx("AAPL", 100), recentTx("AAPL", -50)},
	})

	req := httptest.NewRequest("GET", "/api/v1/insider/report?tickers=AAPL", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body ReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Purchases) != 1 || len(body.Sales) != 1 {
		t.Errorf("purchases/sales = %d/%d, want 1/1", len(body.Purchases), len(body.Sales))
	}
	if body.Message != "" {
		t.Errorf("non-empty report should carry no message, got %q", body.Message)
	}
	if body.WindowDays != 15 {
		t.Errorf("window days = %d, want 15", body.WindowDays)
	}
}

func TestGetReportEmptyWindow(t *testing.T) {
	app := newTestApp(t, map[string][]domain.Transaction{})

	req := httptest.NewRequest("GET", "/api/v1/insider/report?tickers=AAPL", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("an empty window is not an error, status = %d", resp.StatusCode)
	}

	var body ReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Message != noMatchesMessage {
		t.Errorf("message = %q, want %q", body.Message, noMatchesMessage)
	}
}

func TestGetReportRejectsBadDays(t *testing.T) {
	app := newTestApp(t, nil)

	req := httptest.NewRequest("GET", "/api/v1/insider/report?days=-3", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetTickerTransactions(t *testing.T) {
	app := newTestApp(t, map[string][]domain.Transaction{
		"NVDA": {recentTx("NVDA", 200)},
	})

	req := httptest.NewRequest("GET", "/api/v1/insider/nvda/transactions", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body TickerTransactionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Ticker != "NVDA" {
		t.Errorf("ticker = %q, want NVDA (path params are upper-cased)", body.Ticker)
	}
	if body.Count != 1 || len(body.Purchases) != 1 {
		t.Errorf("count = %d, purchases = %d", body.Count, len(body.Purchases))
	}
}

func TestPublishRequiresAuth(t *testing.T) {
	app := newTestApp(t, nil)

	req := httptest.NewRequest("POST", "/api/v1/admin/publish", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
