package models

import (
	"encoding/json"
	"time"
)

// Envelope is the top-level structure of an inbound webhook request body.
// Payload and Timestamp are kept as raw JSON so the original bytes survive
// untouched: the payload may be any JSON value and the timestamp may be a
// string or a number depending on the provider.
type Envelope struct {
	ProjectKey string          `json:"project_key"`
	EventType  string          `json:"event_type"`
	EventID    string          `json:"event_id"`
	Timestamp  json.RawMessage `json:"timestamp"`
	Payload    json.RawMessage `json:"payload"`
}

// MissingFields reports whether any required envelope field is absent.
// A JSON null payload or timestamp counts as present, matching the
// "field must exist, value is opaque" contract.
func (e *Envelope) MissingFields() bool {
	return e.ProjectKey == "" ||
		e.EventType == "" ||
		e.EventID == "" ||
		e.Timestamp == nil ||
		e.Payload == nil
}

// Project is a tenant workspace that owns integrations and events.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ProjectKey string    `json:"project_key"`
	CreatedAt  time.Time `json:"created_at"`
}

// Integration status values.
const (
	IntegrationActive   = "active"
	IntegrationInactive = "inactive"
)

// Integration is a configured (project, provider) pairing holding the shared
// secret that authenticates that provider's webhooks.
type Integration struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Provider  string    `json:"provider"`
	Secret    string    `json:"secret"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IncomingEvent is one accepted webhook delivery, stored append-only with the
// provider's payload verbatim.
type IncomingEvent struct {
	ID              string          `json:"id"`
	ProjectID       string          `json:"project_id"`
	Provider        string          `json:"provider"`
	EventType       string          `json:"event_type"`
	ExternalEventID string          `json:"external_event_id"`
	Payload         json.RawMessage `json:"payload"`
	ReceivedAt      time.Time       `json:"received_at"`
}

// Audit event types emitted by the ingestion pipeline.
const (
	AuditWebhookReceived = "webhook_received"
	AuditWebhookRejected = "webhook_rejected"
)

// AuditEvent is an immutable record of one pipeline attempt. ProjectID is nil
// when the attempt was rejected before the tenant could be resolved. ActorID
// is always nil for webhook traffic; it exists for parity with audit records
// written by the surrounding application on behalf of users.
type AuditEvent struct {
	ID        string                 `json:"id"`
	ProjectID *string                `json:"project_id"`
	EventType string                 `json:"event_type"`
	ActorID   *string                `json:"actor_id"`
	Payload   map[string]interface{} `json:"payload"`
	Signature string                 `json:"signature,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
