// Package service implements the webhook ingestion pipeline: parse,
// authenticate, persist, audit. Every gate is evaluated in strict order and
// every exit path, accepted or rejected, leaves exactly one audit record.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/audit"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/directory"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/events"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/metrics"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/models"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/repository"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/signature"
)

// Rejection reason codes, in pipeline gate order.
const (
	ReasonInvalidJSON         = "invalid_json"
	ReasonMissingFields       = "missing_fields"
	ReasonMissingSecret       = "missing_secret"
	ReasonProjectNotFound     = "project_not_found"
	ReasonIntegrationNotFound = "integration_not_found"
	ReasonIntegrationInactive = "integration_inactive"
	ReasonInvalidSecret       = "invalid_secret"
	ReasonInvalidSignature    = "invalid_signature"
	ReasonDuplicateEvent      = "duplicate_event"
	ReasonDBInsertFailed      = "db_insert_failed"
)

// OutcomeAccepted labels successful deliveries in metrics.
const OutcomeAccepted = "accepted"

var reasonStatus = map[string]int{
	ReasonInvalidJSON:         http.StatusBadRequest,
	ReasonMissingFields:       http.StatusBadRequest,
	ReasonMissingSecret:       http.StatusUnauthorized,
	ReasonProjectNotFound:     http.StatusNotFound,
	ReasonIntegrationNotFound: http.StatusNotFound,
	ReasonIntegrationInactive: http.StatusForbidden,
	ReasonInvalidSecret:       http.StatusUnauthorized,
	ReasonInvalidSignature:    http.StatusUnauthorized,
	ReasonDuplicateEvent:      http.StatusConflict,
	ReasonDBInsertFailed:      http.StatusInternalServerError,
}

// StatusForReason maps a rejection reason to its HTTP status.
func StatusForReason(reason string) int {
	if status, ok := reasonStatus[reason]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Headers carries the authentication material extracted from the request.
// Secret is the coalesced shared-secret header value; Signature is the
// optional HMAC header value, empty when absent.
type Headers struct {
	Secret    string
	Signature string
}

// Result is the outcome of one pipeline invocation.
type Result struct {
	OK     bool
	Reason string
	Status int
	Event  *models.IncomingEvent
}

func accepted(event *models.IncomingEvent) *Result {
	return &Result{OK: true, Status: http.StatusOK, Event: event}
}

func rejected(reason string) *Result {
	return &Result{OK: false, Reason: reason, Status: StatusForReason(reason)}
}

type IngestService struct {
	directory *directory.Directory
	repo      repository.Repository
	sink      *audit.Sink
	publisher events.Publisher
	logger    *slog.Logger
}

func NewIngestService(dir *directory.Directory, repo repository.Repository, sink *audit.Sink, publisher events.Publisher, logger *slog.Logger) *IngestService {
	if publisher == nil {
		publisher = events.NoOpPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestService{
		directory: dir,
		repo:      repo,
		sink:      sink,
		publisher: publisher,
		logger:    logger,
	}
}

// Ingest runs the gate sequence over one inbound delivery. rawBody must be
// the exact bytes received: signature verification hashes them as-is.
func (s *IngestService) Ingest(ctx context.Context, provider string, rawBody []byte, hdr Headers) *Result {
	metrics.WebhookBytesTotal.Add(float64(len(rawBody)))

	var envelope models.Envelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return s.reject(ctx, ReasonInvalidJSON, nil, map[string]interface{}{
			"provider": provider,
		})
	}

	if envelope.MissingFields() {
		return s.reject(ctx, ReasonMissingFields, nil, map[string]interface{}{
			"provider": provider,
		})
	}

	rejectionContext := map[string]interface{}{
		"provider":    provider,
		"project_key": envelope.ProjectKey,
		"event_type":  envelope.EventType,
		"event_id":    envelope.EventID,
	}

	if hdr.Secret == "" {
		return s.reject(ctx, ReasonMissingSecret, nil, rejectionContext)
	}

	project, err := s.directory.FindProjectByKey(ctx, envelope.ProjectKey)
	if err != nil {
		if !errors.Is(err, repository.ErrProjectNotFound) {
			s.logger.ErrorContext(ctx, "project lookup failed", slog.String("error", err.Error()))
		}
		return s.reject(ctx, ReasonProjectNotFound, nil, rejectionContext)
	}

	// From here on the tenant is known and audit records carry its scope;
	// the project key is dropped from the payload since the ID supersedes it.
	scopedContext := map[string]interface{}{
		"provider":   provider,
		"event_type": envelope.EventType,
		"event_id":   envelope.EventID,
	}

	integration, err := s.directory.FindIntegration(ctx, project.ID, provider)
	if err != nil {
		if !errors.Is(err, repository.ErrIntegrationNotFound) {
			s.logger.ErrorContext(ctx, "integration lookup failed", slog.String("error", err.Error()))
		}
		return s.reject(ctx, ReasonIntegrationNotFound, &project.ID, scopedContext)
	}

	if integration.Status != models.IntegrationActive {
		return s.reject(ctx, ReasonIntegrationInactive, &project.ID, scopedContext)
	}

	if !signature.SecretEqual(hdr.Secret, integration.Secret) {
		return s.reject(ctx, ReasonInvalidSecret, &project.ID, scopedContext)
	}

	// Signature verification is optional, layered on top of the mandatory
	// shared-secret check. It hashes the raw body bytes, never a reparse.
	if hdr.Signature != "" {
		if !signature.Verify(rawBody, integration.Secret, hdr.Signature) {
			return s.reject(ctx, ReasonInvalidSignature, &project.ID, scopedContext)
		}
	}

	id, _ := uuid.NewV7()
	event := &models.IncomingEvent{
		ID:              id.String(),
		ProjectID:       project.ID,
		Provider:        provider,
		EventType:       envelope.EventType,
		ExternalEventID: envelope.EventID,
		Payload:         envelope.Payload,
		ReceivedAt:      time.Now().UTC(),
	}

	start := time.Now()
	err = s.repo.InsertIncomingEvent(ctx, event)
	metrics.StoreDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEvent) {
			return s.reject(ctx, ReasonDuplicateEvent, &project.ID, scopedContext)
		}
		metrics.StoreErrors.Inc()
		s.logger.ErrorContext(ctx, "incoming event insert failed",
			slog.String("provider", provider),
			slog.String("event_id", envelope.EventID),
			slog.String("error", err.Error()),
		)
		return s.reject(ctx, ReasonDBInsertFailed, &project.ID, scopedContext)
	}

	s.publisher.PublishAccepted(ctx, event)

	s.sink.Record(ctx, models.AuditWebhookReceived, &project.ID, map[string]interface{}{
		"provider":   provider,
		"event_type": envelope.EventType,
		"event_id":   envelope.EventID,
		"timestamp":  envelope.Timestamp,
	})
	metrics.WebhooksTotal.WithLabelValues(provider, OutcomeAccepted).Inc()

	return accepted(event)
}

// reject audits the failed attempt and returns its Result. The audit payload
// carries whatever context was resolved when the gate fired, plus the reason.
func (s *IngestService) reject(ctx context.Context, reason string, projectID *string, fields map[string]interface{}) *Result {
	payload := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	payload["reason"] = reason

	s.sink.Record(ctx, models.AuditWebhookRejected, projectID, payload)

	provider, _ := fields["provider"].(string)
	metrics.WebhooksTotal.WithLabelValues(provider, reason).Inc()

	return rejected(reason)
}
