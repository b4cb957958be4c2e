package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rcalvet/insider-radar/internal/config"
	"github.com/rcalvet/insider-radar/internal/domain"
	"github.com/rcalvet/insider-radar/internal/ingestion"
	"github.com/rcalvet/insider-radar/internal/service"
	"github.com/rcalvet/insider-radar/internal/storage/cache"
	"github.com/rcalvet/insider-radar/internal/storage/postgres"
	"github.com/rcalvet/insider-radar/internal/storage/sheets"
	pkglogger "github.com/rcalvet/insider-radar/pkg/logger"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "insider-radar",
		Short: "Insider disclosure reporting pipeline",
		Long: `Fetches insider transaction disclosures for a watchlist of tickers,
classifies purchases and sales, and publishes the summarized tables
to a Google Sheets spreadsheet.`,
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline and publish the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			tickersFlag, _ := cmd.Flags().GetString("tickers")
			return runPipeline(days, tickersFlag, true)
		},
	}
	runCmd.Flags().IntP("days", "d", 0, "Trailing window in days (default: configured WINDOW_DAYS)")
	runCmd.Flags().StringP("tickers", "t", "", "Comma-separated tickers (default: configured watchlist)")

	var previewCmd = &cobra.Command{
		Use:   "preview",
		Short: "Build the report and print it without publishing",
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			tickersFlag, _ := cmd.Flags().GetString("tickers")
			return runPipeline(days, tickersFlag, false)
		},
	}
	previewCmd.Flags().IntP("days", "d", 0, "Trailing window in days (default: configured WINDOW_DAYS)")
	previewCmd.Flags().StringP("tickers", "t", "", "Comma-separated tickers (default: configured watchlist)")

	var resolveCmd = &cobra.Command{
		Use:   "resolve [tickers...]",
		Short: "Resolve total share counts for tickers",
		Long: `Shows which provider field each ticker's share count came from.
Useful for checking why a summary percentage is zero.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return resolveShares(args)
		},
	}

	rootCmd.AddCommand(runCmd, previewCmd, resolveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runPipeline(days int, tickersFlag string, publish bool) error {
	ctx := context.Background()
	cfg := config.Load()

	if err := pkglogger.Init(cfg.LogLevel, cfg.Environment == "development"); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer pkglogger.Close()

	tickers := cfg.Tickers
	if tickersFlag != "" {
		tickers = splitTickers(tickersFlag)
	}
	if days <= 0 {
		days = cfg.WindowDays
	}

	finnhub := ingestion.NewFinnhubClient(cfg.FinnhubBaseURL, cfg.FinnhubAPIKey, cfg.FetchTimeout)
	market := ingestion.NewMarketClient(cfg.MarketBaseURL, cfg.FetchTimeout)

	fetcher := service.NewFetchService(finnhub)
	shares := service.NewShareCountService(market, connectShareCache(cfg), cfg.ShareCacheTTL)

	opts := service.ReportOptions{
		WindowDays:       days,
		PercentPrecision: cfg.PercentPrecision,
	}

	if publish {
		writer, err := sheets.NewWriter(ctx, cfg.GoogleCredentialsFile, cfg.SpreadsheetID, cfg.PurchasesWorksheet, cfg.SalesWorksheet)
		if err != nil {
			return fmt.Errorf("connecting to sheets: %w", err)
		}
		opts.Publisher = writer

		if archive := connectArchive(ctx, cfg); archive != nil {
			opts.Archiver = archive
		}
	}

	svc := service.NewReportService(fetcher, shares, opts)

	report, err := svc.Run(ctx, tickers)
	if report != nil {
		printReport(report)
	}
	if err != nil {
		return err
	}

	if publish {
		fmt.Println("\nReport published.")
	}
	return nil
}

func resolveShares(tickers []string) error {
	ctx := context.Background()
	cfg := config.Load()

	if err := pkglogger.Init(cfg.LogLevel, cfg.Environment == "development"); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer pkglogger.Close()

	market := ingestion.NewMarketClient(cfg.MarketBaseURL, cfg.FetchTimeout)
	shares := service.NewShareCountService(market, connectShareCache(cfg), cfg.ShareCacheTTL)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TICKER\tSHARES\tSOURCE")
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		count := shares.Resolve(ctx, t)
		fmt.Fprintf(w, "%s\t%d\t%s\n", count.Ticker, count.Shares, count.Source)
	}
	return w.Flush()
}

func splitTickers(raw string) []string {
	var tickers []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}

func printReport(report *domain.Report) {
	if report.Empty() {
		fmt.Println("no matching transactions")
		return
	}

	fmt.Printf("Window: last %d days\n", report.WindowDays)

	printTransactions("Purchases", report.Purchases)
	printSummary(report.PurchaseSummary, domain.SidePurchased)
	printTransactions("Sales", report.Sales)
	printSummary(report.SaleSummary, domain.SideSold)

	for _, outcome := range report.Fetches {
		if outcome.Err != nil {
			fmt.Printf("warning: %s: %s\n", outcome.Ticker, outcome.Err.Kind)
		}
	}
}

func printTransactions(title string, rows []domain.ReportRow) {
	fmt.Printf("\n%s (%d)\n", title, len(rows))
	if len(rows) == 0 {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(domain.TransactionColumns, "\t"))
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			r.Name, r.Quantity, r.Price, r.SharesRemaining, r.TransactionDate, r.Ticker)
	}
	w.Flush()
}

func printSummary(rows []domain.SummaryRow, side domain.Side) {
	if len(rows) == 0 {
		return
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(domain.SummaryColumns(side), "\t"))
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\n",
			r.Ticker, r.TotalQuantity, r.MeanPrice, r.Percentage, r.TotalShares)
	}
	w.Flush()
}

func connectShareCache(cfg *config.Config) service.ShareCache {
	if cfg.RedisURL == "" {
		return nil
	}

	redisCache, err := cache.NewRedisCache(cfg)
	if err != nil {
		fmt.Printf("warning: redis unavailable, continuing without cache: %v\n", err)
		return nil
	}
	return redisCache
}

func connectArchive(ctx context.Context, cfg *config.Config) *postgres.Archive {
	if cfg.DatabaseURL == "" {
		return nil
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		log.Printf("warning: postgres unavailable, continuing without archive: %v", err)
		return nil
	}

	archive := postgres.NewArchive(db.Pool())
	if err := archive.EnsureSchema(ctx); err != nil {
		log.Printf("warning: archive schema failed, continuing without archive: %v", err)
		db.Close()
		return nil
	}
	return archive
}
