package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rcalvet/insider-radar/internal/domain"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS insider_transactions (
    id               BIGSERIAL PRIMARY KEY,
    run_at           TIMESTAMPTZ NOT NULL,
    side             TEXT NOT NULL,
    insider_name     TEXT NOT NULL,
    quantity         BIGINT NOT NULL,
    price            NUMERIC NOT NULL,
    shares_remaining NUMERIC NOT NULL,
    transaction_date TEXT NOT NULL,
    ticker           TEXT NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_insider_transactions_run_at
    ON insider_transactions (run_at);
CREATE INDEX IF NOT EXISTS idx_insider_transactions_ticker
    ON insider_transactions (ticker);
`

// Archive keeps the published tables of every run. The spreadsheet is
// overwritten on each publish, so this is the only history the system
// retains. Entirely optional: without DATABASE_URL no Archive exists.
type Archive struct {
	pool *pgxpool.Pool
}

func NewArchive(pool *pgxpool.Pool) *Archive {
	return &Archive{pool: pool}
}

// EnsureSchema creates the archive table when missing.
func (a *Archive) EnsureSchema(ctx context.Context) error {
	if _, err := a.pool.Exec(ctx, archiveSchema); err != nil {
		return fmt.Errorf("creating archive schema: %w", err)
	}
	return nil
}

// SaveRun inserts both sides of a report in one transaction.
func (a *Archive) SaveRun(ctx context.Context, report *domain.Report) error {
	rows := make([][]interface{}, 0, len(report.Purchases)+len(report.Sales))
	rows = appendRows(rows, report.GeneratedAt, domain.SidePurchased, report.Purchases)
	rows = appendRows(rows, report.GeneratedAt, domain.SideSold, report.Sales)

	if len(rows) == 0 {
		return nil
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning archive transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"insider_transactions"},
		[]string{"run_at", "side", "insider_name", "quantity", "price", "shares_remaining", "transaction_date", "ticker"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copying archive rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing archive: %w", err)
	}

	return nil
}

func appendRows(rows [][]interface{}, runAt time.Time, side domain.Side, table []domain.ReportRow) [][]interface{} {
	for _, r := range table {
		rows = append(rows, []interface{}{
			runAt, string(side), r.Name, r.Quantity, r.Price, r.SharesRemaining, r.TransactionDate, r.Ticker,
		})
	}
	return rows
}
