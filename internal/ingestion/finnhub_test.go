package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rcalvet/insider-radar/internal/domain"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestInsiderTransactionsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") != "AAPL" {
			t.Errorf("unexpected symbol %q", r.URL.Query().Get("symbol"))
		}
		if r.URL.Query().Get("token") != "test-token" {
			t.Errorf("token not forwarded")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"name":"Cook Timothy","share":3280000,"change":100,"transactionPrice":150.0,"transactionDate":"2024-03-10","transactionCode":"P"},
			{"name":"Maestri Luca","share":110000,"change":-50,"transactionPrice":151.0,"transactionDate":"2024-03-11","transactionCode":"S"},
			{"name":"Adams Katherine","share":220000,"change":4000,"transactionPrice":0,"transactionDate":"2024-03-12","transactionCode":"A"}
		]}`))
	}))
	defer srv.Close()

	client := NewFinnhubClient(srv.URL, "test-token", 5*time.Second)
	got, err := client.InsiderTransactions(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 normalized records, got %d", len(got))
	}
	if got[0].Name != "Timothy Cook" {
		t.Errorf("name = %q, want %q", got[0].Name, "Timothy Cook")
	}
}

func TestInsiderTransactionsEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := NewFinnhubClient(srv.URL, "t", 5*time.Second)
	got, err := client.InsiderTransactions(context.Background(), "SOM")
	if err != nil {
		t.Fatalf("empty data must not be an error, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no records, got %d", len(got))
	}
}

func TestInsiderTransactionsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>rate limited</html>`))
	}))
	defer srv.Close()

	client := NewFinnhubClient(srv.URL, "t", 5*time.Second)
	_, err := client.InsiderTransactions(context.Background(), "AAPL")

	var srcErr *domain.SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected *domain.SourceError, got %T", err)
	}
	if srcErr.Kind != domain.FailureMalformed {
		t.Errorf("kind = %s, want %s", srcErr.Kind, domain.FailureMalformed)
	}
	if srcErr.Ticker != "AAPL" {
		t.Errorf("ticker = %q, want AAPL", srcErr.Ticker)
	}
}

func TestInsiderTransactionsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewFinnhubClient(srv.URL, "t", 5*time.Second)
	_, err := client.InsiderTransactions(context.Background(), "AAPL")

	var srcErr *domain.SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected *domain.SourceError, got %T", err)
	}
	if srcErr.Kind != domain.FailureUnavailable {
		t.Errorf("kind = %s, want %s", srcErr.Kind, domain.FailureUnavailable)
	}
}

func TestInsiderTransactionsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewFinnhubClient(srv.URL, "t", 2*time.Second)
	_, err := client.InsiderTransactions(context.Background(), "AAPL")

	var srcErr *domain.SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected *domain.SourceError, got %T", err)
	}
	if srcErr.Kind != domain.FailureUnavailable {
		t.Errorf("kind = %s, want %s", srcErr.Kind, domain.FailureUnavailable)
	}
}
