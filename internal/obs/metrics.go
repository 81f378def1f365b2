package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brfweb_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "brfweb_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)

	authOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brfweb_auth_outcomes_total",
			Help: "Session gate outcomes.",
		},
		[]string{"outcome"},
	)

	newsWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brfweb_news_writes_total",
			Help: "Admin news mutations by action.",
		},
		[]string{"action"},
	)
)

// Init registers the metrics in the default registry. Call once.
func Init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, authOutcomes, newsWrites)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncAuthOutcome counts a session gate result: "ok", "rejected",
// "expired" or "logout".
func IncAuthOutcome(outcome string) {
	authOutcomes.WithLabelValues(outcome).Inc()
}

// IncNewsWrite counts an admin mutation: "create", "update", "delete".
func IncNewsWrite(action string) {
	newsWrites.WithLabelValues(action).Inc()
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// Instrument records request counts and latency.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}

		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.code)
		httpRequestsTotal.WithLabelValues(r.Method, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, status).Observe(time.Since(start).Seconds())
	})
}
