package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pooltracker"

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "http_requests_total", Help: "Processed API requests",
	}, []string{"method", "route", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "http_request_duration_seconds", Help: "API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "handler_errors_total", Help: "Unexpected handler errors (5xx)",
	})
	QuestSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "quest_submissions_total", Help: "Quest code submissions by outcome",
	}, []string{"outcome"})
	QuestAssignments = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "quest_assignments_total", Help: "Daily quest assignments created",
	})
	// число записей журнала; сами значения бывают отрицательными
	PointEntries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "point_entries_total", Help: "Ledger entries written, by actor kind",
	}, []string{"actor"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, HandlerErrors, QuestSubmissions, QuestAssignments, PointEntries, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

func ObserveRequest(method, route string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
	if status >= 500 {
		HandlerErrors.Inc()
	}
}

// статус сворачиваем до класса, чтобы не раздувать кардинальность
func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
