package sheets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/rcalvet/insider-radar/internal/domain"
)

// Writer publishes a report into one spreadsheet with two worksheets,
// one per side. Each publish clears a worksheet and rewrites it: the
// transaction table at A1 and the summary table beside it, at row 1
// two columns past the transaction table. The two worksheets are
// written one after the other, so a failure between them leaves the
// first updated and the second stale.
type Writer struct {
	svc           *sheets.Service
	spreadsheetID string
	purchasesWS   string
	salesWS       string
}

// NewWriter authenticates with a service-account credentials file and
// binds to the destination spreadsheet.
func NewWriter(ctx context.Context, credentialsFile, spreadsheetID, purchasesWS, salesWS string) (*Writer, error) {
	creds, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &Writer{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		purchasesWS:   purchasesWS,
		salesWS:       salesWS,
	}, nil
}

func (w *Writer) Publish(ctx context.Context, report *domain.Report) error {
	if err := w.publishSide(ctx, w.purchasesWS, report.Purchases, report.PurchaseSummary, domain.SidePurchased); err != nil {
		return err
	}
	return w.publishSide(ctx, w.salesWS, report.Sales, report.SaleSummary, domain.SideSold)
}

func (w *Writer) publishSide(ctx context.Context, worksheet string, rows []domain.ReportRow, summary []domain.SummaryRow, side domain.Side) error {
	if _, err := w.svc.Spreadsheets.Values.Clear(w.spreadsheetID, quoteWorksheet(worksheet), &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clearing worksheet %s: %w", worksheet, err)
	}

	if err := w.write(ctx, rangeRef(worksheet, "A1"), transactionValues(rows)); err != nil {
		return fmt.Errorf("writing transactions to %s: %w", worksheet, err)
	}

	if err := w.write(ctx, rangeRef(worksheet, summaryAnchor()), summaryValues(summary, side)); err != nil {
		return fmt.Errorf("writing summary to %s: %w", worksheet, err)
	}

	return nil
}

func (w *Writer) write(ctx context.Context, ref string, values [][]interface{}) error {
	_, err := w.svc.Spreadsheets.Values.Update(w.spreadsheetID, ref, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// transactionValues renders the transaction table, header first.
func transactionValues(rows []domain.ReportRow) [][]interface{} {
	values := make([][]interface{}, 0, len(rows)+1)

	header := make([]interface{}, len(domain.TransactionColumns))
	for i, c := range domain.TransactionColumns {
		header[i] = c
	}
	values = append(values, header)

	for _, r := range rows {
		values = append(values, []interface{}{
			r.Name,
			r.Quantity,
			r.Price.String(),
			r.SharesRemaining.String(),
			r.TransactionDate,
			r.Ticker,
		})
	}
	return values
}

// summaryValues renders the side-labeled summary table, header first.
func summaryValues(rows []domain.SummaryRow, side domain.Side) [][]interface{} {
	columns := domain.SummaryColumns(side)
	values := make([][]interface{}, 0, len(rows)+1)

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	values = append(values, header)

	for _, r := range rows {
		values = append(values, []interface{}{
			r.Ticker,
			r.TotalQuantity,
			r.MeanPrice.String(),
			r.Percentage.String(),
			r.TotalShares,
		})
	}
	return values
}

// summaryAnchor is the cell the summary table starts at: row 1, two
// columns past the transaction table.
func summaryAnchor() string {
	return columnLetter(len(domain.TransactionColumns)+2) + "1"
}

// columnLetter converts a 1-based column index into A1 notation.
func columnLetter(n int) string {
	letters := ""
	for n > 0 {
		n--
		letters = string(rune('A'+n%26)) + letters
		n /= 26
	}
	return letters
}

func rangeRef(worksheet, cell string) string {
	return quoteWorksheet(worksheet) + "!" + cell
}

// quoteWorksheet protects worksheet names with spaces in A1 notation.
func quoteWorksheet(name string) string {
	if strings.ContainsAny(name, " !'") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}
