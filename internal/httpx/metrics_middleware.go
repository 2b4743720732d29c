package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsMiddleware records request counts and latency. route names the
// handler so that path parameters do not explode label cardinality.
type MetricsMiddleware struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewMetricsMiddleware(reg prometheus.Registerer) *MetricsMiddleware {
	m := &MetricsMiddleware{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookstock",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bookstock",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

func (m *MetricsMiddleware) Route(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := wrap(w)
		next.ServeHTTP(rw, r)
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(rw.statusCode)).Inc()
		m.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
