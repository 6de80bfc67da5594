package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xwing_http_requests_total",
		Help: "HTTP requests by method, route pattern and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "xwing_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	LockConflicts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xwing_store_lock_conflicts_total",
		Help: "Writes rejected because the document version moved.",
	}, []string{"collection"})

	Logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xwing_auth_logins_total",
		Help: "Login attempts by result.",
	}, []string{"result"})

	SessionsPurged = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "xwing_sessions_purged_total",
		Help: "Expired sessions removed by the purge job.",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequests,
		HTTPDuration,
		LockConflicts,
		Logins,
		SessionsPurged,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
