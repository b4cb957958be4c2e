package ingestion

import (
	"strings"
	"time"
	"unicode"

	"github.com/rcalvet/insider-radar/internal/domain"
	"github.com/shopspring/decimal"
)

// Only purchases and sales survive normalization; awards, gifts,
// conversions and the rest of the Form 4 code set are discarded.
var relevantCodes = map[string]bool{
	"P": true,
	"S": true,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// normalizeTransactions projects raw filings onto the canonical record
// shape: code filter, name reordering and title-casing, ticker stamp.
// Input order is preserved.
func normalizeTransactions(raw []finnhubTransaction, ticker string) []domain.Transaction {
	if len(raw) == 0 {
		return nil
	}

	out := make([]domain.Transaction, 0, len(raw))
	for _, r := range raw {
		if !relevantCodes[r.TransactionCode] {
			continue
		}

		out = append(out, domain.Transaction{
			Name:            titleCase(reorderName(r.Name)),
			Quantity:        int64(r.Change),
			Price:           decimal.NewFromFloat(r.TransactionPrice),
			SharesRemaining: decimal.NewFromFloat(r.Share),
			TransactionDate: parseTransactionDate(r.TransactionDate),
			Ticker:          ticker,
		})
	}

	return out
}

// reorderName rotates "Surname GivenNames" to "GivenNames Surname" by
// moving the first whitespace token to the end. Single-token names pass
// through. Purely lexical: a multi-word surname reorders incorrectly,
// which is an accepted approximation.
func reorderName(name string) string {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return strings.TrimSpace(name)
	}
	return strings.Join(append(parts[1:], parts[0]), " ")
}

// titleCase uppercases the first letter of every alphabetic run and
// lowercases the rest, so "SMITH-JONES JOHN" becomes "Smith-Jones
// John". Filing names arrive in inconsistent casing.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}

	return b.String()
}

// parseTransactionDate returns the zero time when the provider's date
// cannot be parsed; the date filter treats zero as "before any cutoff"
// and drops the row.
func parseTransactionDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
