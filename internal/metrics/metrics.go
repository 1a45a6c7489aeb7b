package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Webhook ingestion metrics
	WebhooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "controlhub_webhookd_webhooks_total",
			Help: "Total number of webhook deliveries processed, by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	WebhookBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "controlhub_webhookd_webhook_bytes_total",
			Help: "Total bytes of webhook request bodies received",
		},
	)

	// Storage metrics
	StoreDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "controlhub_webhookd_store_duration_seconds",
			Help:    "Duration of incoming event inserts in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	StoreErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "controlhub_webhookd_store_errors_total",
			Help: "Total number of incoming event insert failures",
		},
	)

	// Audit metrics
	AuditWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "controlhub_webhookd_audit_write_errors_total",
			Help: "Total number of swallowed audit write failures",
		},
	)

	// Rate limiting metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "controlhub_webhookd_rate_limit_hits_total",
			Help: "Total number of rate limited webhook deliveries",
		},
		[]string{"provider"},
	)
)
