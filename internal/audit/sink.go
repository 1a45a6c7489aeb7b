// Package audit appends immutable records of webhook pipeline attempts.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/metrics"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/models"
)

// Repository is the subset of persistence the sink needs.
type Repository interface {
	InsertAuditEvent(ctx context.Context, event *models.AuditEvent) error
}

// Sink writes audit events best-effort: a failed write is logged and
// swallowed so it can never mask or alter the caller's primary outcome.
type Sink struct {
	repo   Repository
	signer *Signer
	logger *slog.Logger
}

func NewSink(repo Repository, signer *Signer, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		repo:   repo,
		signer: signer,
		logger: logger,
	}
}

// Record appends one audit event. projectID is nil when the attempt was
// rejected before tenant resolution. The write uses a background context so
// a cancelled request cannot suppress the audit trail.
func (s *Sink) Record(ctx context.Context, eventType string, projectID *string, payload map[string]interface{}) {
	id, _ := uuid.NewV7()
	event := &models.AuditEvent{
		ID:        id.String(),
		ProjectID: projectID,
		EventType: eventType,
		ActorID:   nil,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}

	if s.signer != nil {
		event.Signature = s.signer.Sign(event)
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.repo.InsertAuditEvent(writeCtx, event); err != nil {
		metrics.AuditWriteErrors.Inc()
		s.logger.WarnContext(ctx, "audit write failed",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}
