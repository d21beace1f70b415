package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// subsystem maps a service name like "order-service" onto a legal metric
// name segment. Hyphens are not allowed in Prometheus metric names.
func subsystem(service string) string {
	return strings.ReplaceAll(service, "-", "_")
}

type ServerMetrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer, service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "isengard",
		Subsystem: subsystem(service),
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"path", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "isengard",
		Subsystem: subsystem(service),
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"path"})

	reg.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, Latency: latency}
}

// Middleware records request counts and latency per route.
func (m *ServerMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		m.Requests.WithLabelValues(r.URL.Path, strconv.Itoa(ww.Status())).Inc()
		m.Latency.WithLabelValues(r.URL.Path).Observe(float64(time.Since(start).Milliseconds()))
	})
}

type BusMetrics struct {
	Published *prometheus.CounterVec
	Consumed  *prometheus.CounterVec
	Failed    *prometheus.CounterVec
}

func NewBusMetrics(reg prometheus.Registerer, service string) *BusMetrics {
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "isengard",
		Subsystem: subsystem(service),
		Name:      "bus_messages_published_total",
		Help:      "Total number of integration events published.",
	}, []string{"topic"})
	consumed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "isengard",
		Subsystem: subsystem(service),
		Name:      "bus_messages_consumed_total",
		Help:      "Total number of integration events consumed.",
	}, []string{"topic"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "isengard",
		Subsystem: subsystem(service),
		Name:      "bus_messages_failed_total",
		Help:      "Total number of integration events whose handler failed.",
	}, []string{"topic"})

	reg.MustRegister(published, consumed, failed)
	return &BusMetrics{Published: published, Consumed: consumed, Failed: failed}
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
