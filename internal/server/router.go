package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"isengard/internal/infrastructure/metrics"
)

// NewRouter builds the base router every service shares: request metrics,
// a health endpoint and the prometheus scrape endpoint. Services mount their
// own routes on the returned router.
func NewRouter(serverMetrics *metrics.ServerMetrics, registry *prometheus.Registry) chi.Router {
	r := chi.NewRouter()
	r.Use(serverMetrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	return r
}
