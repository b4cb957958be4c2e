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

// Yahoo rejects requests without a browser User-Agent (401/429).
const marketUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// MarketClient fetches the optional share-count statistics for a
// ticker from the quote-summary endpoint. Absent fields stay nil; the
// resolver decides what to do with them.
type MarketClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewMarketClient(baseURL string, timeout time.Duration) *MarketClient {
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}

	return &MarketClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// rawValue is Yahoo's {"raw": n, "fmt": "..."} number wrapper; only the
// raw form matters here.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			DefaultKeyStatistics struct {
				SharesOutstanding      rawValue `json:"sharesOutstanding"`
				TotalSharesOutstanding rawValue `json:"totalSharesOutstanding"`
				FloatShares            rawValue `json:"floatShares"`
			} `json:"defaultKeyStatistics"`
			Price struct {
				MarketCap          rawValue `json:"marketCap"`
				RegularMarketPrice rawValue `json:"regularMarketPrice"`
			} `json:"price"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// ShareStats fetches the share-count candidates for ticker. Any
// failure is classified; the caller maps every error onto the sentinel
// zero share count.
func (c *MarketClient) ShareStats(ctx context.Context, ticker string) (domain.ShareStats, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=defaultKeyStatistics%%2Cprice",
		c.baseURL, url.PathEscape(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.ShareStats{}, domain.NewSourceError(domain.FailureUnavailable, ticker, err)
	}
	req.Header.Set("User-Agent", marketUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ShareStats{}, domain.NewSourceError(domain.FailureUnavailable, ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ShareStats{}, domain.NewSourceError(domain.FailureUnavailable, ticker,
			fmt.Errorf("status code %d", resp.StatusCode))
	}

	var body quoteSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.ShareStats{}, domain.NewSourceError(domain.FailureMalformed, ticker, err)
	}

	if body.QuoteSummary.Error != nil {
		return domain.ShareStats{}, domain.NewSourceError(domain.FailureMalformed, ticker,
			fmt.Errorf("%s: %s", body.QuoteSummary.Error.Code, body.QuoteSummary.Error.Description))
	}

	if len(body.QuoteSummary.Result) == 0 {
		return domain.ShareStats{}, domain.NewSourceError(domain.FailureMissingField, ticker,
			fmt.Errorf("empty quote summary result"))
	}

	r := body.QuoteSummary.Result[0]
	return domain.ShareStats{
		SharesOutstanding:      toInt(r.DefaultKeyStatistics.SharesOutstanding.Raw),
		TotalSharesOutstanding: toInt(r.DefaultKeyStatistics.TotalSharesOutstanding.Raw),
		FloatShares:            toInt(r.DefaultKeyStatistics.FloatShares.Raw),
		MarketCap:              r.Price.MarketCap.Raw,
		CurrentPrice:           r.Price.RegularMarketPrice.Raw,
	}, nil
}

func toInt(f *float64) *int64 {
	if f == nil {
		return nil
	}
	v := int64(*f)
	return &v
}
