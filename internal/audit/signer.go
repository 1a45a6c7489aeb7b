package audit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/models"
)

// Signer produces tamper-evidence signatures over the stable fields of an
// audit event, keyed by the configured audit secret.
type Signer struct {
	secretKey []byte
}

func NewSigner(secretKey string) *Signer {
	return &Signer{
		secretKey: []byte(secretKey),
	}
}

func (s *Signer) Sign(event *models.AuditEvent) string {
	projectID := ""
	if event.ProjectID != nil {
		projectID = *event.ProjectID
	}
	payload := event.ID + event.CreatedAt.Format(time.RFC3339Nano) + event.EventType + projectID
	h := hmac.New(sha256.New, s.secretKey)
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Signer) Verify(event *models.AuditEvent) bool {
	expected := s.Sign(event)
	return hmac.Equal([]byte(expected), []byte(event.Signature))
}
