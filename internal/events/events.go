package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hireloop/hireloop-be/shared/rabbitmq"
)

// Event kinds carried on the notifications exchange.
const (
	KindJobPublished        = "job.published"
	KindApplicationReceived = "application.received"
	KindApplicationUpdated  = "application.status_changed"
)

// Event is the message the API publishes after a confirmed state change.
// The notifier service turns these into notification rows. Publishing happens
// strictly after the database transaction commits.
type Event struct {
	Kind            string    `json:"kind"`
	RecipientUserID string    `json:"recipient_user_id"`
	JobID           string    `json:"job_id,omitempty"`
	JobTitle        string    `json:"job_title,omitempty"`
	ApplicationID   string    `json:"application_id,omitempty"`
	Status          string    `json:"status,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Validate checks the fields the notifier cannot work without.
func (e *Event) Validate() error {
	if e.Kind == "" {
		return fmt.Errorf("event kind is required")
	}
	if e.RecipientUserID == "" {
		return fmt.Errorf("event recipient is required")
	}
	return nil
}

// Decode parses an event from a message body.
func Decode(body []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Publisher sends events to RabbitMQ. Failures are logged and swallowed by
// Fire: a lost notification must never fail the request that funded a
// committed record.
type Publisher struct {
	rabbit *rabbitmq.Client
	logger *slog.Logger
}

func NewPublisher(rabbit *rabbitmq.Client, logger *slog.Logger) *Publisher {
	return &Publisher{rabbit: rabbit, logger: logger}
}

// Fire publishes the event with retry, logging on failure.
func (p *Publisher) Fire(ctx context.Context, e *Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	body, err := json.Marshal(e)
	if err != nil {
		p.logger.Error("Failed to encode event",
			slog.String("kind", e.Kind),
			slog.Any("error", err),
		)
		return
	}

	if err := p.rabbit.PublishWithRetry(ctx, body, "application/json"); err != nil {
		p.logger.Error("Failed to publish event",
			slog.String("kind", e.Kind),
			slog.String("recipient", e.RecipientUserID),
			slog.Any("error", err),
		)
		return
	}

	p.logger.Debug("Event published",
		slog.String("kind", e.Kind),
		slog.String("recipient", e.RecipientUserID),
	)
}
