package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side identifies which half of the report a table belongs to.
type Side string

const (
	SidePurchased Side = "purchased"
	SideSold      Side = "sold"
)

// Transaction is a normalized insider filing. Quantity keeps the sign
// reported by the source: positive shares were acquired, negative were
// disposed. A zero TransactionDate means the source date could not be
// parsed; such rows are dropped by the date filter.
type Transaction struct {
	Name            string          `json:"name"`
	Quantity        int64           `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	SharesRemaining decimal.Decimal `json:"shares_remaining"`
	TransactionDate time.Time       `json:"transaction_date"`
	Ticker          string          `json:"ticker"`
}

// ReportRow is the display projection of a Transaction. The date is a
// rendered dd/mm/yyyy string (empty when the source date was missing),
// so a formatted table cannot flow back into date-based filtering or
// sorting.
type ReportRow struct {
	Name            string          `json:"name"`
	Quantity        int64           `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	SharesRemaining decimal.Decimal `json:"shares_remaining"`
	TransactionDate string          `json:"transaction_date"`
	Ticker          string          `json:"ticker"`
}

// TransactionColumns is the header of the published transaction tables,
// in worksheet column order.
var TransactionColumns = []string{"Name", "Quantity", "Price", "Remaining", "Date", "Ticker"}

// SummaryRow aggregates one ticker's transactions for one side.
// TotalQuantity is a positive magnitude for both sides. Percentage is 0
// when TotalShares is 0 (share count unknown).
type SummaryRow struct {
	Ticker        string          `json:"ticker"`
	TotalQuantity int64           `json:"total_quantity"`
	MeanPrice     decimal.Decimal `json:"mean_price"`
	Percentage    decimal.Decimal `json:"percentage"`
	TotalShares   int64           `json:"total_shares"`
}

// SummaryColumns returns the side-labeled header of a summary table.
func SummaryColumns(side Side) []string {
	label := "Purchased"
	if side == SideSold {
		label = "Sold"
	}
	return []string{"Ticker", "Total " + label, "Mean Price " + label, "Percentage " + label, "Total Shares"}
}
