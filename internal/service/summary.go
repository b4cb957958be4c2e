package service

import (
	"github.com/rcalvet/insider-radar/internal/domain"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Summarize groups records by ticker and computes the per-ticker
// aggregate for one side of the report; the side labeling itself lives
// in domain.SummaryColumns. Tickers appear in the order they first
// occur in records. TotalQuantity is the sum of absolute quantities,
// so sale summaries report positive magnitudes. MeanPrice is rounded
// to 2 places; the ownership percentage to precision places, and
// forced to 0 whenever the share count is the unknown sentinel (0),
// never a division by zero.
func Summarize(records []domain.Transaction, counts map[string]domain.ShareCount, precision int32) []domain.SummaryRow {
	type group struct {
		quantity int64
		priceSum decimal.Decimal
		n        int64
	}

	order := make([]string, 0)
	groups := make(map[string]*group)

	for _, r := range records {
		g, ok := groups[r.Ticker]
		if !ok {
			g = &group{}
			groups[r.Ticker] = g
			order = append(order, r.Ticker)
		}
		q := r.Quantity
		if q < 0 {
			q = -q
		}
		g.quantity += q
		g.priceSum = g.priceSum.Add(r.Price)
		g.n++
	}

	rows := make([]domain.SummaryRow, 0, len(order))
	for _, ticker := range order {
		g := groups[ticker]

		totalShares := counts[ticker].Shares

		percentage := decimal.Zero
		if totalShares > 0 {
			percentage = decimal.NewFromInt(g.quantity).
				Div(decimal.NewFromInt(totalShares)).
				Mul(oneHundred).
				Round(precision)
		}

		rows = append(rows, domain.SummaryRow{
			Ticker:        ticker,
			TotalQuantity: g.quantity,
			MeanPrice:     g.priceSum.Div(decimal.NewFromInt(g.n)).Round(2),
			Percentage:    percentage,
			TotalShares:   totalShares,
		})
	}

	return rows
}
