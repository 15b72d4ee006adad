// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Crawl page outcomes.
const (
	PageOK        = "ok"
	PageStatus    = "bad_status"
	PageMalformed = "malformed"
	PageTransport = "transport"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Crawl metrics
	PagesFetched     *prometheus.CounterVec
	PostsCollected   *prometheus.CounterVec
	CrawlsTerminated *prometheus.CounterVec
	PageLatency      prometheus.Histogram

	// Scoring metrics
	PostsScored     *prometheus.CounterVec
	ScoringDuration prometheus.Histogram

	// Dataset metrics
	SymbolsProcessed *prometheus.CounterVec
	RowsWritten      prometheus.Counter
	DaysWithPosts    prometheus.Counter

	// Persistence metrics
	RecordsStored  *prometheus.CounterVec
	LookupMisses   *prometheus.CounterVec
	DBQueryErrors  *prometheus.CounterVec
	LastSuccessRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil reg registers with the default Prometheus registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "reddit_sentiment_lab"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		PagesFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "crawl",
			Name:      "pages_fetched_total",
			Help:      "Total number of listing pages requested by outcome",
		}, []string{"subreddit", "outcome"}),
		PostsCollected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "crawl",
			Name:      "posts_collected_total",
			Help:      "Total number of posts attributed to a tracked name",
		}, []string{"subreddit"}),
		CrawlsTerminated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "crawl",
			Name:      "terminated_total",
			Help:      "Total number of crawls by stop reason",
		}, []string{"reason"}),
		PageLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "crawl",
			Name:      "page_latency_seconds",
			Help:      "Listing page request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		PostsScored: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "posts_scored_total",
			Help:      "Total number of texts scored by policy",
		}, []string{"policy"}),
		ScoringDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "batch_duration_seconds",
			Help:      "Duration of one worker pool batch in seconds",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),

		SymbolsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "symbols_processed_total",
			Help:      "Total number of symbols processed by status",
		}, []string{"status"}),
		RowsWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "rows_written_total",
			Help:      "Total number of output rows written",
		}),
		DaysWithPosts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "days_with_posts_total",
			Help:      "Total number of (symbol, date) summaries computed",
		}),

		RecordsStored: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "records_stored_total",
			Help:      "Total number of records persisted by store",
		}, []string{"store"}),
		LookupMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "lookup_misses_total",
			Help:      "Total number of skipped symbols by lookup kind",
		}, []string{"kind"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "query_errors_total",
			Help:      "Total number of database errors",
		}, []string{"database", "operation"}),
		LastSuccessRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordPage records one listing page request.
func RecordPage(subreddit, outcome string, seconds float64) {
	DefaultMetrics.PagesFetched.WithLabelValues(subreddit, outcome).Inc()
	DefaultMetrics.PageLatency.Observe(seconds)
}

// RecordPostCollected increments the collected posts counter.
func RecordPostCollected(subreddit string) {
	DefaultMetrics.PostsCollected.WithLabelValues(subreddit).Inc()
}

// RecordCrawlStop records why a crawl ended.
func RecordCrawlStop(reason string) {
	DefaultMetrics.CrawlsTerminated.WithLabelValues(reason).Inc()
}

// RecordScored records a finished scoring batch.
func RecordScored(policy string, count int, seconds float64) {
	DefaultMetrics.PostsScored.WithLabelValues(policy).Add(float64(count))
	DefaultMetrics.ScoringDuration.Observe(seconds)
}

// RecordSymbol records a processed dataset symbol.
func RecordSymbol(status string, rows, days int) {
	DefaultMetrics.SymbolsProcessed.WithLabelValues(status).Inc()
	DefaultMetrics.RowsWritten.Add(float64(rows))
	DefaultMetrics.DaysWithPosts.Add(float64(days))
}

// RecordStored records persisted records.
func RecordStored(store string, count int) {
	DefaultMetrics.RecordsStored.WithLabelValues(store).Add(float64(count))
}

// RecordLookupMiss records a skipped lookup.
func RecordLookupMiss(kind string) {
	DefaultMetrics.LookupMisses.WithLabelValues(kind).Inc()
}

// RecordDBError records a database error.
func RecordDBError(database, operation string) {
	DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
}

// RecordRunSuccess stamps the last successful run.
func RecordRunSuccess(unixSeconds int64) {
	DefaultMetrics.LastSuccessRun.Set(float64(unixSeconds))
}
