package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outage_api_requests_total",
		Help: "Total HTTP requests by route and status code",
	}, []string{"route", "code"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outage_api_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"route"})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outage_api_rate_limited_total",
		Help: "Total search requests rejected by the rate limiter",
	})
	SearchCandidates = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "outage_api_search_candidates",
		Help:    "Addresses scored per search",
		Buckets: prometheus.ExponentialBuckets(10, 4, 8),
	})
	SyncRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outage_api_sync_runs_total",
		Help: "Table synchronizations by outcome (ok, not_modified, error)",
	}, []string{"table", "outcome"})
	SyncDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outage_api_sync_duration_ms",
		Help:    "Table synchronization duration in milliseconds",
		Buckets: []float64{10, 50, 100, 500, 1000, 5000, 15000, 60000},
	}, []string{"table"})
	SyncRows = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "outage_api_sync_rows",
		Help: "Rows stored by the last successful synchronization",
	}, []string{"table"})
	LastSyncTimestamp = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "outage_api_last_sync_timestamp_seconds",
		Help: "Unix time of the last successful synchronization",
	}, []string{"table"})
	DecodeFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outage_api_decode_failures_total",
		Help: "Source records skipped because their geometry could not be decoded",
	}, []string{"table"})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(RateLimitedTotal)
	prometheus.MustRegister(SearchCandidates)
	prometheus.MustRegister(SyncRunsTotal)
	prometheus.MustRegister(SyncDurationMs)
	prometheus.MustRegister(SyncRows)
	prometheus.MustRegister(LastSyncTimestamp)
	prometheus.MustRegister(DecodeFailuresTotal)
}

// Handler exposes the registered collectors for scraping.
func Handler() http.Handler { return promhttp.Handler() }
