package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eoms"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	SubmissionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submission_transitions_total",
			Help:      "Submission status transitions by target status",
		},
		[]string{"status"},
	)

	ChatRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Help chatbot requests by outcome",
		},
		[]string{"result"}, // "answered", "fallback", "invalid"
	)

	CampusCompliancePercent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "campus_compliance_percent",
			Help:      "Approved report progress per campus for the latest computed year",
		},
		[]string{"campus", "year"},
	)

	NonCompliantUnits = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "noncompliant_units",
			Help:      "Units missing required reports in closed cycles at the last sweep",
		},
	)
)

// RecordHTTPRequest records counters for a finished HTTP request
func RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordSubmissionTransition counts a submission entering status
func RecordSubmissionTransition(status string) {
	SubmissionTransitionsTotal.WithLabelValues(status).Inc()
}

// RecordChat counts a chatbot exchange by outcome
func RecordChat(result string) {
	ChatRequestsTotal.WithLabelValues(result).Inc()
}

// SetCampusCompliance publishes the progress percent of one campus
func SetCampusCompliance(campus string, year int, percent float64) {
	CampusCompliancePercent.WithLabelValues(campus, strconv.Itoa(year)).Set(percent)
}

// SetNonCompliantUnits publishes the size of the last non-compliance listing
func SetNonCompliantUnits(n int) {
	NonCompliantUnits.Set(float64(n))
}

// Middleware records request metrics labelled by the chi route pattern, not the raw path,
// so ids in URLs do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordHTTPRequest(r.Method, route, status, time.Since(start))
	})
}
