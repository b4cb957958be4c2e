package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rcalvet/insider-radar/internal/domain"
)

// FinnhubClient fetches insider-transaction filings for one ticker at a
// time. All failures are classified as domain.SourceError so callers
// can degrade per ticker instead of aborting a batch.
type FinnhubClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewFinnhubClient(baseURL, token string, timeout time.Duration) *FinnhubClient {
	if baseURL == "" {
		baseURL = "https://finnhub.io/api/v1"
	}

	return &FinnhubClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// finnhubTransaction mirrors one element of the provider's "data"
// array. Change is signed: positive acquired, negative disposed.
type finnhubTransaction struct {
	Name             string  `json:"name"`
	Share            float64 `json:"share"`
	Change           float64 `json:"change"`
	TransactionDate  string  `json:"transactionDate"`
	TransactionCode  string  `json:"transactionCode"`
	TransactionPrice float64 `json:"transactionPrice"`
}

type finnhubResponse struct {
	Data []finnhubTransaction `json:"data"`
}

// InsiderTransactions returns the normalized P/S transactions reported
// for ticker. An empty data array is a valid response and yields
// (nil, nil).
func (c *FinnhubClient) InsiderTransactions(ctx context.Context, ticker string) ([]domain.Transaction, error) {
	endpoint := fmt.Sprintf("%s/stock/insider-transactions?symbol=%s&token=%s",
		c.baseURL, url.QueryEscape(ticker), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domain.NewSourceError(domain.FailureUnavailable, ticker, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewSourceError(domain.FailureUnavailable, ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewSourceError(domain.FailureUnavailable, ticker,
			fmt.Errorf("status code %d", resp.StatusCode))
	}

	var body finnhubResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.NewSourceError(domain.FailureMalformed, ticker, err)
	}

	return normalizeTransactions(body.Data, ticker), nil
}
