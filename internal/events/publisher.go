// Package events fans accepted webhook deliveries out to downstream
// consumers over NATS. Publication is best-effort: a broker outage never
// changes the HTTP outcome of a delivery that is already durably stored.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/models"
)

// SubjectPrefix is the NATS subject tree for accepted events; the provider
// name is appended, e.g. controlhub.events.github.
const SubjectPrefix = "controlhub.events."

// Publisher publishes accepted incoming events.
type Publisher interface {
	PublishAccepted(ctx context.Context, event *models.IncomingEvent)
	Close()
}

// NATSPublisher publishes to a NATS subject per provider.
type NATSPublisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// Config holds NATS connection settings.
type Config struct {
	URL           string
	Name          string
	MaxReconnects int
	ReconnectWait time.Duration
}

func NewNATSPublisher(cfg Config, logger *slog.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxReconnects == 0 {
		cfg.MaxReconnects = -1 // retry forever
	}
	if cfg.ReconnectWait == 0 {
		cfg.ReconnectWait = 2 * time.Second
	}

	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("NATS reconnected")
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn, logger: logger}, nil
}

// PublishAccepted sends the stored event to controlhub.events.<provider>.
// Failures are logged and swallowed.
func (p *NATSPublisher) PublishAccepted(ctx context.Context, event *models.IncomingEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.WarnContext(ctx, "failed to marshal accepted event",
			slog.String("event_id", event.ExternalEventID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := p.conn.Publish(SubjectPrefix+event.Provider, data); err != nil {
		p.logger.WarnContext(ctx, "failed to publish accepted event",
			slog.String("provider", event.Provider),
			slog.String("event_id", event.ExternalEventID),
			slog.String("error", err.Error()),
		)
	}
}

func (p *NATSPublisher) Close() {
	p.conn.Close()
}

// NoOpPublisher discards events, used when NATS is disabled and in tests.
type NoOpPublisher struct{}

func (NoOpPublisher) PublishAccepted(ctx context.Context, event *models.IncomingEvent) {}

func (NoOpPublisher) Close() {}
