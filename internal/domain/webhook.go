package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type WebhookOutcome string

const (
	WebhookOutcomeReceived  WebhookOutcome = "received"
	WebhookOutcomeHandled   WebhookOutcome = "handled"
	WebhookOutcomeIgnored   WebhookOutcome = "ignored"
	WebhookOutcomeDuplicate WebhookOutcome = "duplicate"
	WebhookOutcomeFailed    WebhookOutcome = "failed"
)

// WebhookEvent is one row of the append-only delivery log. Every call
// that passes signature verification gets an entry, written before the
// payload is acted upon, so failed or ignored deliveries can be audited
// and replayed by hand.
type WebhookEvent struct {
	ID           uuid.UUID
	Provider     string
	EventID      *string
	Kind         string
	Payload      []byte
	Outcome      WebhookOutcome
	PaymentID    *string
	ErrorMessage *string
	ReceivedAt   time.Time
	ProcessedAt  *time.Time
}

type WebhookLogRepository interface {
	// Append inserts the entry. If the provider event id was already
	// logged it returns ErrDuplicateEvent and inserts nothing.
	Append(ctx context.Context, event *WebhookEvent) error
	UpdateOutcome(ctx context.Context, event *WebhookEvent) error
	// DeleteOlderThan removes entries received before the cutoff and
	// returns the number of rows deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
