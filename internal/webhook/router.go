package webhook

import (
	"context"

	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
)

// Result is the outcome of processing a single event.
type Result struct {
	Outcome domain.WebhookOutcome
	// PaymentID is the payment the event was resolved to, if any.
	PaymentID string
	// Notifications are side-effect requests for the dispatcher. They
	// are returned as data so processing stays free of I/O beyond the
	// repositories.
	Notifications []domain.Notification
}

// HandlerFunc processes one decoded event.
type HandlerFunc func(ctx context.Context, event Event) (Result, error)

// Router maps event kinds to handlers. Kinds without a registered
// handler yield an ignored result, never an error: the endpoint must
// acknowledge every structurally valid payload or the provider keeps
// retrying events nobody cares about.
type Router struct {
	handlers map[Kind]HandlerFunc
}

func NewRouter() *Router {
	return &Router{
		handlers: make(map[Kind]HandlerFunc),
	}
}

func (r *Router) Register(kind Kind, handler HandlerFunc) {
	r.handlers[kind] = handler
}

func (r *Router) Dispatch(ctx context.Context, event Event) (Result, error) {
	handler, ok := r.handlers[event.Kind]
	if !ok {
		return Result{Outcome: domain.WebhookOutcomeIgnored}, nil
	}

	return handler(ctx, event)
}
