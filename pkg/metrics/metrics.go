package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "report_runs_total",
		Help: "Total number of pipeline runs",
	}, []string{"status"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "report_run_duration_seconds",
		Help:    "Duration of full pipeline runs",
		Buckets: prometheus.DefBuckets,
	})

	FetchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insider_fetch_requests_total",
		Help: "Insider-transaction fetches by outcome",
	}, []string{"status"})

	TransactionsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insider_transactions_fetched_total",
		Help: "Normalized insider transactions fetched",
	})

	ShareResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "share_count_resolutions_total",
		Help: "Share-count resolutions by winning candidate",
	}, []string{"source"})

	PublishDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "spreadsheet_publish_duration_seconds",
		Help:    "Duration of spreadsheet publishes",
		Buckets: prometheus.DefBuckets,
	})

	PublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spreadsheet_publish_errors_total",
		Help: "Failed spreadsheet publishes",
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "share_cache_hits_total",
		Help: "Share-count cache hits",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "share_cache_misses_total",
		Help: "Share-count cache misses",
	})

	ArchiveInserts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "archive_inserts_total",
		Help: "Run-archive inserts by status",
	}, []string{"status"})
)

func RecordFetch(status string) {
	FetchRequests.WithLabelValues(status).Inc()
}

func RecordResolution(source string) {
	ShareResolutions.WithLabelValues(source).Inc()
}

func RecordRun(status string) {
	RunsTotal.WithLabelValues(status).Inc()
}

type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{
		start: time.Now(),
	}
}

func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(time.Since(t.start).Seconds())
}

func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
