package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Upstream APIs
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoprank_api_requests_total",
			Help: "Total number of upstream API requests",
		},
		[]string{"api", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shoprank_api_request_duration_seconds",
			Help:    "Time taken by upstream API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"api"},
	)

	// Rank checks
	RankChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoprank_rank_checks_total",
			Help: "Total number of rank checks by outcome",
		},
		[]string{"outcome"},
	)

	PagesScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shoprank_rank_pages_scanned_total",
			Help: "Total number of search pages scanned by rank checks",
		},
	)

	// Keyword metrics
	KeywordLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoprank_keyword_lookups_total",
			Help: "Total number of related keyword lookups by source",
		},
		[]string{"source"},
	)

	// Monitor
	RankChanges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shoprank_monitor_rank_changes_total",
			Help: "Total number of rank changes detected by the monitor",
		},
	)
)

// StatusLabel turns an HTTP status code into a label value; 0 means the
// request never got a response.
func StatusLabel(code int) string {
	if code == 0 {
		return "error"
	}
	return strconv.Itoa(code)
}

// Handler returns a mux serving the default registry at path.
func Handler(path string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())
	return mux
}
