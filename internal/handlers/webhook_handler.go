package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/httputil"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/ratelimit"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/service"
)

// Webhook request headers. The primary secret header is preferred; the
// legacy one is honored only when the primary is absent.
const (
	HeaderSecret       = "x-control-hub-secret"
	HeaderLegacySecret = "x-webhook-secret"
	HeaderSignature    = "x-control-hub-signature"
)

const maxBodyBytes = 2 << 20 // 2 MiB

type WebhookHandler struct {
	service *service.IngestService
	limiter ratelimit.RateLimiter
	logger  *slog.Logger
}

func NewWebhookHandler(svc *service.IngestService, limiter ratelimit.RateLimiter, logger *slog.Logger) *WebhookHandler {
	if limiter == nil {
		limiter = &ratelimit.NoOpRateLimiter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{
		service: svc,
		limiter: limiter,
		logger:  logger,
	}
}

// HandleWebhook receives one provider delivery on POST /webhooks/{provider}.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	provider := r.PathValue("provider")
	if provider == "" {
		httputil.WriteError(w, http.StatusNotFound, "unknown route")
		return
	}

	allowed, err := h.limiter.Allow(r.Context(), provider, getClientIP(r))
	if err != nil {
		// Limiter outage never blocks ingestion.
		h.logger.WarnContext(r.Context(), "rate limiter unavailable", slog.String("error", err.Error()))
	} else if !allowed {
		httputil.WriteReject(w, http.StatusTooManyRequests, "rate_limited")
		return
	}

	// The raw bytes feed signature verification downstream, so the body is
	// read once here and never reparsed for hashing.
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		httputil.WriteReject(w, http.StatusBadRequest, service.ReasonInvalidJSON)
		return
	}
	defer r.Body.Close()

	result := h.service.Ingest(r.Context(), provider, body, Headers(r))
	if result.OK {
		httputil.WriteAck(w)
		return
	}
	httputil.WriteReject(w, result.Status, result.Reason)
}

// Headers extracts the webhook credential headers, coalescing the legacy
// secret header behind the primary one.
func Headers(r *http.Request) service.Headers {
	secret := r.Header.Get(HeaderSecret)
	if secret == "" {
		secret = r.Header.Get(HeaderLegacySecret)
	}
	return service.Headers{
		Secret:    secret,
		Signature: r.Header.Get(HeaderSignature),
	}
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
