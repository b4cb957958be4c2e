package service

import (
	"sort"
	"time"

	"github.com/rcalvet/insider-radar/internal/domain"
)

// displayDateLayout renders dates as dd/mm/yyyy in the published
// tables.
const displayDateLayout = "02/01/2006"

// Classify partitions records on the sign of Quantity: positive rows
// are purchases, negative rows sales. Zero-quantity rows fall in
// neither partition. Input order is preserved within each side.
func Classify(records []domain.Transaction) (purchases, sales []domain.Transaction) {
	for _, r := range records {
		switch {
		case r.Quantity > 0:
			purchases = append(purchases, r)
		case r.Quantity < 0:
			sales = append(sales, r)
		}
	}
	return purchases, sales
}

// FilterSince retains records dated within the trailing window of
// windowDays calendar days from now. The comparison is date-only; a
// record dated exactly windowDays ago is kept. Records with a missing
// (zero) date are dropped.
func FilterSince(records []domain.Transaction, windowDays int, now time.Time) []domain.Transaction {
	cutoff := dateOnly(now).AddDate(0, 0, -windowDays)

	out := make([]domain.Transaction, 0, len(records))
	for _, r := range records {
		if r.TransactionDate.IsZero() {
			continue
		}
		if !dateOnly(r.TransactionDate).Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// FormatForDisplay sorts records by transaction date descending (ties
// keep their input order) and renders each into a ReportRow whose date
// is a dd/mm/yyyy string, empty when the date was missing. This is the
// terminal presentation step: ReportRow carries no date value, so the
// output cannot re-enter date-based filtering or sorting.
func FormatForDisplay(records []domain.Transaction) []domain.ReportRow {
	sorted := make([]domain.Transaction, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TransactionDate.After(sorted[j].TransactionDate)
	})

	rows := make([]domain.ReportRow, 0, len(sorted))
	for _, r := range sorted {
		date := ""
		if !r.TransactionDate.IsZero() {
			date = r.TransactionDate.Format(displayDateLayout)
		}
		rows = append(rows, domain.ReportRow{
			Name:            r.Name,
			Quantity:        r.Quantity,
			Price:           r.Price,
			SharesRemaining: r.SharesRemaining,
			TransactionDate: date,
			Ticker:          r.Ticker,
		})
	}
	return rows
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
