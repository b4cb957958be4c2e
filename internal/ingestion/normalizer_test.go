package ingestion

import (
	"testing"
	"time"
)

func TestNormalizeFiltersTransactionCodes(t *testing.T) {
	raw := []finnhubTransaction{
		{Name: "Smith John", TransactionCode: "P", Change: 100, TransactionDate: "2024-03-10"},
		{Name: "Doe Jane", TransactionCode: "A", Change: 500, TransactionDate: "2024-03-10"},
		{Name: "Roe Richard", TransactionCode: "S", Change: -200, TransactionDate: "2024-03-11"},
		{Name: "Poe Edgar", TransactionCode: "G", Change: 50, TransactionDate: "2024-03-11"},
		{Name: "Coe Carl", TransactionCode: "X", Change: 10, TransactionDate: "2024-03-12"},
	}

	got := normalizeTransactions(raw, "AAPL")

	if len(got) != 2 {
		t.Fatalf("expected 2 records after code filter, got %d", len(got))
	}
	if got[0].Quantity != 100 || got[1].Quantity != -200 {
		t.Errorf("unexpected quantities: %d, %d", got[0].Quantity, got[1].Quantity)
	}
	for _, tx := range got {
		if tx.Ticker != "AAPL" {
			t.Errorf("ticker not stamped: %q", tx.Ticker)
		}
	}
}

func TestReorderName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"surname first", "Smith John", "John Smith"},
		{"middle names rotate too", "Smith John Albert", "John Albert Smith"},
		{"single token unchanged", "Prigozhin", "Prigozhin"},
		{"extra whitespace", "  Smith   John ", "John Smith"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reorderName(tt.in); got != tt.want {
				t.Errorf("reorderName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"JOHN SMITH", "John Smith"},
		{"john smith", "John Smith"},
		{"o'brien patrick", "O'Brien Patrick"},
		{"SMITH-JONES JOHN", "Smith-Jones John"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := titleCase(tt.in); got != tt.want {
			t.Errorf("titleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseTransactionDate(t *testing.T) {
	if got := parseTransactionDate("2024-03-02"); got.IsZero() {
		t.Error("expected ISO date to parse")
	} else if got.Year() != 2024 || got.Month() != time.March || got.Day() != 2 {
		t.Errorf("parsed wrong date: %v", got)
	}

	if got := parseTransactionDate("not-a-date"); !got.IsZero() {
		t.Errorf("expected zero time for garbage, got %v", got)
	}
	if got := parseTransactionDate(""); !got.IsZero() {
		t.Errorf("expected zero time for empty string, got %v", got)
	}
}

func TestNormalizePreservesOrderAndFields(t *testing.T) {
	raw := []finnhubTransaction{
		{Name: "Smith John", TransactionCode: "S", Change: -50, Share: 1000, TransactionPrice: 151.5, TransactionDate: "2024-03-11"},
		{Name: "Doe Jane", TransactionCode: "P", Change: 100, Share: 2500, TransactionPrice: 150, TransactionDate: "2024-03-10"},
	}

	got := normalizeTransactions(raw, "MSFT")
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}

	first := got[0]
	if first.Name != "John Smith" {
		t.Errorf("name = %q, want %q", first.Name, "John Smith")
	}
	if !first.Price.Equal(dec("151.5")) {
		t.Errorf("price = %s, want 151.5", first.Price)
	}
	if !first.SharesRemaining.Equal(dec("1000")) {
		t.Errorf("shares remaining = %s, want 1000", first.SharesRemaining)
	}
	if got[1].Name != "Jane Doe" {
		t.Errorf("order not preserved: second record is %q", got[1].Name)
	}
}
