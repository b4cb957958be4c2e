package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	FinnhubAPIKey  string        `envconfig:"FINNHUB_API_KEY"`
	FinnhubBaseURL string        `envconfig:"FINNHUB_BASE_URL" default:"https://finnhub.io/api/v1"`
	MarketBaseURL  string        `envconfig:"MARKET_BASE_URL" default:"https://query1.finance.yahoo.com"`
	FetchTimeout   time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`

	Tickers          []string `envconfig:"TICKERS" default:"ASML,ULTA,TXN,POOL,MSFT,MC,DHR,AAPL,SOM,NVDA,GOOGL"`
	WindowDays       int      `envconfig:"WINDOW_DAYS" default:"29"`
	PercentPrecision int32    `envconfig:"PERCENT_PRECISION" default:"5"`

	SpreadsheetID         string `envconfig:"SPREADSHEET_ID"`
	PurchasesWorksheet    string `envconfig:"PURCHASES_WORKSHEET" default:"Purchases"`
	SalesWorksheet        string `envconfig:"SALES_WORKSHEET" default:"Sales"`
	GoogleCredentialsFile string `envconfig:"GOOGLE_CREDENTIALS_FILE" default:"credentials.json"`

	RedisURL      string        `envconfig:"REDIS_URL"`
	ShareCacheTTL time.Duration `envconfig:"SHARE_CACHE_TTL" default:"24h"`

	DatabaseURL         string        `envconfig:"DATABASE_URL"`
	DatabaseMaxConns    int32         `envconfig:"DATABASE_MAX_CONNS" default:"5"`
	DatabaseMinConns    int32         `envconfig:"DATABASE_MIN_CONNS" default:"1"`
	DatabaseMaxConnLife time.Duration `envconfig:"DATABASE_MAX_CONN_LIFE" default:"1h"`

	APIHost         string        `envconfig:"API_HOST" default:"0.0.0.0"`
	APIPort         string        `envconfig:"API_PORT" default:"8000"`
	APIReadTimeout  time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	APIWriteTimeout time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"2m"`
	APIWindowDays   int           `envconfig:"API_WINDOW_DAYS" default:"15"`
	AdminUser       string        `envconfig:"ADMIN_USER" default:"admin"`
	AdminPassword   string        `envconfig:"ADMIN_PASSWORD"`
	RateLimitPerMin int           `envconfig:"RATE_LIMIT_PER_MIN" default:"60"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

// Load reads configuration from the environment, honoring a local .env
// file when one exists. Credentials never live in code.
func Load() *Config {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		panic(err)
	}

	for i, t := range cfg.Tickers {
		cfg.Tickers[i] = strings.ToUpper(strings.TrimSpace(t))
	}

	return &cfg
}
