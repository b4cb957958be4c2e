package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/rcalvet/insider-radar/internal/api"
	"github.com/rcalvet/insider-radar/internal/config"
	"github.com/rcalvet/insider-radar/internal/ingestion"
	"github.com/rcalvet/insider-radar/internal/service"
	"github.com/rcalvet/insider-radar/internal/storage/cache"
	"github.com/rcalvet/insider-radar/internal/storage/postgres"
	"github.com/rcalvet/insider-radar/internal/storage/sheets"
	pkglogger "github.com/rcalvet/insider-radar/pkg/logger"
)

func main() {
	cfg := config.Load()

	if err := pkglogger.Init(cfg.LogLevel, cfg.Environment == "development"); err != nil {
		log.Fatal("initializing logger:", err)
	}
	defer pkglogger.Close()

	db := connectPostgres(cfg)
	if db != nil {
		defer db.Close()
	}

	cacheService := connectRedis(cfg)
	if cacheService != nil {
		defer cacheService.Close()
	}

	// Clients
	finnhub := ingestion.NewFinnhubClient(cfg.FinnhubBaseURL, cfg.FinnhubAPIKey, cfg.FetchTimeout)
	market := ingestion.NewMarketClient(cfg.MarketBaseURL, cfg.FetchTimeout)

	// Services
	fetcher := service.NewFetchService(finnhub)

	var shareCache service.ShareCache
	if cacheService != nil {
		shareCache = cacheService
	}
	shares := service.NewShareCountService(market, shareCache, cfg.ShareCacheTTL)

	opts := service.ReportOptions{
		WindowDays:       cfg.APIWindowDays,
		PercentPrecision: cfg.PercentPrecision,
		Publisher:        connectSheets(cfg),
	}
	if db != nil {
		archive := postgres.NewArchive(db.Pool())
		if err := archive.EnsureSchema(context.Background()); err != nil {
			log.Fatal("preparing archive schema:", err)
		}
		opts.Archiver = archive
	}
	reports := service.NewReportService(fetcher, shares, opts)

	// Handler
	handler := api.NewHandler(reports, fetcher, db, cacheService, cfg.Tickers, cfg.APIWindowDays)

	// Fiber app
	app := fiber.New(fiber.Config{
		Prefork:                 false,
		ServerHeader:            "Insider-Radar",
		DisableStartupMessage:   false,
		AppName:                 "Insider Radar v1.0.0",
		ReadTimeout:             cfg.APIReadTimeout,
		WriteTimeout:            cfg.APIWriteTimeout,
		IdleTimeout:             120 * time.Second,
		ReadBufferSize:          8192,
		WriteBufferSize:         8192,
		ProxyHeader:             "X-Forwarded-For",
		EnableTrustedProxyCheck: true,
		BodyLimit:               1 * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	api.SetupRoutes(app, handler, cfg)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	log.Printf("Starting server on %s", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatal("Server error:", err)
	}
}

// connectPostgres is optional: without DATABASE_URL the API runs with
// no archive and readiness skips the database probe.
func connectPostgres(cfg *config.Config) *postgres.DB {
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL not set, running without run archive")
		return nil
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		log.Printf("PostgreSQL unavailable: %v (continuing without archive)", err)
		return nil
	}

	log.Println("Connected to PostgreSQL")
	return db
}

// connectRedis is optional: without it every share count goes straight
// to the market-data provider.
func connectRedis(cfg *config.Config) *cache.RedisCache {
	if cfg.RedisURL == "" {
		return nil
	}

	redisCache, err := cache.NewRedisCache(cfg)
	if err != nil {
		log.Printf("Redis unavailable: %v (continuing without cache)", err)
		return nil
	}

	log.Println("Connected to Redis")
	return redisCache
}

// connectSheets is optional: without SPREADSHEET_ID the admin publish
// endpoint still builds and archives, it just has nowhere to write.
func connectSheets(cfg *config.Config) service.Publisher {
	if cfg.SpreadsheetID == "" {
		log.Println("SPREADSHEET_ID not set, publishing disabled")
		return nil
	}

	writer, err := sheets.NewWriter(
		context.Background(),
		cfg.GoogleCredentialsFile,
		cfg.SpreadsheetID,
		cfg.PurchasesWorksheet,
		cfg.SalesWorksheet,
	)
	if err != nil {
		log.Printf("Sheets unavailable: %v (publishing disabled)", err)
		return nil
	}

	return writer
}
