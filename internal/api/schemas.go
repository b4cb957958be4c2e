package api

import (
	"time"

	"github.com/rcalvet/insider-radar/internal/domain"
)

type ReportResponse struct {
	GeneratedAt     time.Time           `json:"generated_at"`
	WindowDays      int                 `json:"window_days"`
	Purchases       []domain.ReportRow  `json:"purchases"`
	Sales           []domain.ReportRow  `json:"sales"`
	PurchaseSummary []domain.SummaryRow `json:"purchase_summary"`
	SaleSummary     []domain.SummaryRow `json:"sale_summary"`
	Message         string              `json:"message,omitempty"`
	Failures        []FetchFailure      `json:"failures,omitempty"`
	ProcessingTime  string              `json:"processing_time,omitempty"`
}

type FetchFailure struct {
	Ticker string `json:"ticker"`
	Kind   string `json:"kind"`
}

type TickerTransactionsResponse struct {
	Ticker     string             `json:"ticker"`
	WindowDays int                `json:"window_days"`
	Purchases  []domain.ReportRow `json:"purchases"`
	Sales      []domain.ReportRow `json:"sales"`
	Count      int                `json:"count"`
	Message    string             `json:"message,omitempty"`
}

type PublishResponse struct {
	Status     string `json:"status"`
	Purchases  int    `json:"purchases"`
	Sales      int    `json:"sales"`
	WindowDays int    `json:"window_days"`
	Duration   string `json:"duration"`
}

type HealthResponse struct {
	Status    string                   `json:"status"`
	Version   string                   `json:"version"`
	Timestamp time.Time                `json:"timestamp"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

type ServiceHealth struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      int       `json:"code"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
