package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	TypeSignUpCompleted      = "signup.completed"
	TypeSignUpMetadataFailed = "signup.metadata_failed"
	TypeIncidentSubmitted    = "incident.submitted"
)

// Event is a domain event of the portal.
type Event struct {
	Type           string            `json:"-"`
	FlowID         string            `json:"flow_id,omitempty"`
	AccountID      int64             `json:"account_id,omitempty"`
	ProviderUserID string            `json:"provider_user_id,omitempty"`
	Reason         string            `json:"reason,omitempty"`
	Attributes     map[string]string `json:"attributes,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

type natsPublisher struct {
	conn          *nats.Conn
	subjectPrefix string
}

func NewNATSPublisher(conn *nats.Conn, subjectPrefix string) Publisher {
	if subjectPrefix == "" {
		subjectPrefix = "cipherhaven"
	}
	return &natsPublisher{conn: conn, subjectPrefix: subjectPrefix}
}

func (p *natsPublisher) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(newEnvelope(evt, time.Now()))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.conn.Publish(p.subjectPrefix+"."+evt.Type, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// NopPublisher drops events; used when NATS is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

type envelope struct {
	EventID    string `json:"event_id"`
	EventType  string `json:"event_type"`
	OccurredAt int64  `json:"occurred_at"`
	Payload    Event  `json:"payload"`
}

func newEnvelope(evt Event, at time.Time) envelope {
	return envelope{
		EventID:    uuid.NewString(),
		EventType:  evt.Type,
		OccurredAt: at.Unix(),
		Payload:    evt,
	}
}
