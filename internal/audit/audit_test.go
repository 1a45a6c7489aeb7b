package audit

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/models"
)

type captureRepo struct {
	events []*models.AuditEvent
	err    error
}

func (r *captureRepo) InsertAuditEvent(ctx context.Context, event *models.AuditEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func TestSink_Record(t *testing.T) {
	repo := &captureRepo{}
	sink := NewSink(repo, NewSigner("audit-secret"), slog.Default())

	projectID := "0192f0c1-0000-7000-8000-000000000001"
	sink.Record(context.Background(), models.AuditWebhookRejected, &projectID, map[string]interface{}{
		"provider": "github",
		"reason":   "invalid_secret",
	})

	require.Len(t, repo.events, 1)
	event := repo.events[0]
	assert.Equal(t, models.AuditWebhookRejected, event.EventType)
	require.NotNil(t, event.ProjectID)
	assert.Equal(t, projectID, *event.ProjectID)
	assert.Nil(t, event.ActorID)
	assert.Equal(t, "invalid_secret", event.Payload["reason"])
	assert.NotEmpty(t, event.ID)
	assert.NotEmpty(t, event.Signature)
}

func TestSink_Record_NoProjectScope(t *testing.T) {
	repo := &captureRepo{}
	sink := NewSink(repo, nil, nil)

	sink.Record(context.Background(), models.AuditWebhookRejected, nil, map[string]interface{}{
		"reason": "invalid_json",
	})

	require.Len(t, repo.events, 1)
	assert.Nil(t, repo.events[0].ProjectID)
	assert.Empty(t, repo.events[0].Signature)
}

// A failing audit write must be swallowed, never panic or propagate.
func TestSink_Record_WriteFailureSwallowed(t *testing.T) {
	repo := &captureRepo{err: errors.New("connection refused")}
	sink := NewSink(repo, NewSigner("audit-secret"), slog.Default())

	assert.NotPanics(t, func() {
		sink.Record(context.Background(), models.AuditWebhookReceived, nil, nil)
	})
	assert.Empty(t, repo.events)
}

func TestSigner_Verify(t *testing.T) {
	signer := NewSigner("audit-secret")
	repo := &captureRepo{}
	sink := NewSink(repo, signer, nil)

	sink.Record(context.Background(), models.AuditWebhookReceived, nil, map[string]interface{}{
		"provider": "stripe",
	})
	require.Len(t, repo.events, 1)

	event := repo.events[0]
	assert.True(t, signer.Verify(event))

	// Tampering with any signed field invalidates the signature.
	event.EventType = models.AuditWebhookRejected
	assert.False(t, signer.Verify(event))
}

func TestSigner_DifferentKeysDisagree(t *testing.T) {
	event := &models.AuditEvent{
		ID:        "0192f0c1-0000-7000-8000-00000000000a",
		EventType: models.AuditWebhookReceived,
	}
	event.Signature = NewSigner("key-a").Sign(event)
	assert.False(t, NewSigner("key-b").Verify(event))
}
