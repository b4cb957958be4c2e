package domain

import "time"

// FetchOutcome records how the insider-transaction fetch went for one
// ticker. Err is nil on success; zero Records with a nil Err is a valid
// outcome (no recent filings).
type FetchOutcome struct {
	Ticker  string `json:"ticker"`
	Records int    `json:"records"`
	Err     *SourceError
}

// Report is the full product of one pipeline run: the two filtered and
// formatted transaction tables, the two per-ticker summaries, the share
// counts used for the percentage math and the per-ticker fetch
// outcomes. Nothing in a Report survives past the run; the spreadsheet
// is overwritten, not appended.
type Report struct {
	GeneratedAt     time.Time             `json:"generated_at"`
	WindowDays      int                   `json:"window_days"`
	Purchases       []ReportRow           `json:"purchases"`
	Sales           []ReportRow           `json:"sales"`
	PurchaseSummary []SummaryRow          `json:"purchase_summary"`
	SaleSummary     []SummaryRow          `json:"sale_summary"`
	ShareCounts     map[string]ShareCount `json:"share_counts"`
	Fetches         []FetchOutcome        `json:"fetches"`
}

// Empty reports whether the run produced no transactions on either
// side. An empty report is a legitimate outcome, not an error.
func (r *Report) Empty() bool {
	return len(r.Purchases) == 0 && len(r.Sales) == 0
}
