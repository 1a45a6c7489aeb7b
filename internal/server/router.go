package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/handlers"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/middleware"
)

// NewRouter constructs a ServeMux with the webhook API routes registered.
func NewRouter(wh *handlers.WebhookHandler, hh *handlers.HealthHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /webhooks/{provider}", wh.HandleWebhook)

	// Health endpoints
	mux.HandleFunc("/healthz", hh.Health)
	mux.HandleFunc("/readyz", hh.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
