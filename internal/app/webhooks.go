package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
	"github.com/ozgurarslan/seminar-booking-system/internal/webhook"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// Webhook payloads are small; anything bigger is not from the provider.
	maxWebhookBodyBytes = 64 * 1024

	// The provider changed its signature header name at some point;
	// both are accepted.
	signatureHeader       = "X-Webhook-Signature"
	legacySignatureHeader = "X-Signature-256"

	dedupTTL = 24 * time.Hour
)

type WebhookResponse struct {
	Received bool   `json:"received"`
	Outcome  string `json:"outcome"`
}

// PaymentWebhookHandler ingests asynchronous payment-provider
// notifications: verify the signature over the raw bytes, append to
// the event log, then route to the payment state machine. Every
// structurally valid, authenticated payload is acknowledged with 200,
// including kinds this service does not handle; only a persistence
// failure produces a retryable 500.
func (app *application) PaymentWebhookHandler(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("could not read request body"))
		return
	}

	signature := r.Header.Get(signatureHeader)
	if signature == "" {
		signature = r.Header.Get(legacySignatureHeader)
	}

	if !webhook.VerifySignature([]byte(app.config.webhook.secret), body, signature) {
		app.logger.Warn("rejected webhook with invalid signature",
			"provider", provider,
			"remote_addr", r.RemoteAddr,
		)
		app.invalidSignatureResponse(w, r)
		return
	}

	event, parseErr := webhook.ParseEvent(body)

	entry := &domain.WebhookEvent{
		Provider: provider,
		Kind:     event.RawKind,
		Payload:  body,
		Outcome:  domain.WebhookOutcomeReceived,
	}
	if event.ID != "" {
		entry.EventID = &event.ID
	}

	// Exact re-deliveries are detected by provider event id: a Redis
	// fast path first, the log table's unique index as the durable
	// backstop. Either way the provider gets a 200 so it stops
	// retrying.
	if app.isDuplicateDelivery(r, provider, event.ID) {
		app.recordDelivery(r.Context(), event.RawKind, domain.WebhookOutcomeDuplicate)
		app.acknowledge(w, r, domain.WebhookOutcomeDuplicate)
		return
	}

	if err := app.webhookLogRepo.Append(r.Context(), entry); err != nil {
		if errors.Is(err, domain.ErrDuplicateEvent) {
			app.logger.Info("duplicate webhook delivery skipped",
				"provider", provider, "event_id", event.ID)
			app.recordDelivery(r.Context(), event.RawKind, domain.WebhookOutcomeDuplicate)
			app.acknowledge(w, r, domain.WebhookOutcomeDuplicate)
			return
		}

		// The dedup key was claimed for a delivery that never made it
		// into the log; release it so the provider's retry is not
		// mistaken for a duplicate.
		app.releaseDedupKey(r, provider, event.ID)
		app.serverErrorResponse(w, r, err)
		return
	}

	if parseErr != nil {
		entry.Outcome = domain.WebhookOutcomeFailed
		msg := parseErr.Error()
		entry.ErrorMessage = &msg
		app.finishLogEntry(r, entry)
		app.recordDelivery(r.Context(), event.RawKind, domain.WebhookOutcomeFailed)

		app.badRequestResponse(w, r, parseErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), app.config.webhook.processTimeout)
	defer cancel()

	result, procErr := app.webhookRouter.Dispatch(ctx, event)

	entry.Outcome = result.Outcome
	if result.PaymentID != "" {
		entry.PaymentID = &result.PaymentID
	}
	if procErr != nil {
		entry.Outcome = domain.WebhookOutcomeFailed
		msg := procErr.Error()
		entry.ErrorMessage = &msg

		// The event-id claim must not outlive a failed attempt: the
		// provider retries the exact same event id after a 500, and
		// that retry has to be processed, not swallowed as a
		// duplicate. Clearing EventID here makes UpdateOutcome free
		// the unique index; the Redis key is released alongside.
		entry.EventID = nil
		app.releaseDedupKey(r, provider, event.ID)
	}

	app.finishLogEntry(r, entry)
	app.recordDelivery(r.Context(), event.RawKind, entry.Outcome)

	if procErr != nil {
		app.serverErrorResponse(w, r, fmt.Errorf("process %s event: %w", event.RawKind, procErr))
		return
	}

	// Notifications run on their own goroutines with their own
	// deadlines; a slow mail server cannot delay this response.
	for _, n := range result.Notifications {
		app.notifier.Dispatch(n)
	}

	app.acknowledge(w, r, result.Outcome)
}

func (app *application) acknowledge(w http.ResponseWriter, r *http.Request, outcome domain.WebhookOutcome) {
	resp := WebhookResponse{
		Received: true,
		Outcome:  string(outcome),
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// isDuplicateDelivery checks the Redis dedup key for the event id. A
// missing event id, an unconfigured client or a Redis error all report
// false; the database constraint remains authoritative.
func (app *application) isDuplicateDelivery(r *http.Request, provider, eventID string) bool {
	if eventID == "" || app.redis == nil {
		return false
	}

	key := dedupKey(provider, eventID)

	fresh, err := app.redis.SetNX(r.Context(), key, 1, dedupTTL).Result()
	if err != nil {
		app.logger.Warn("webhook dedup check failed, deferring to database", "error", err)
		return false
	}

	if !fresh {
		app.logger.Info("duplicate webhook delivery skipped",
			"provider", provider, "event_id", eventID)
	}

	return !fresh
}

func (app *application) releaseDedupKey(r *http.Request, provider, eventID string) {
	if eventID == "" || app.redis == nil {
		return
	}

	key := dedupKey(provider, eventID)

	if err := app.redis.Del(context.WithoutCancel(r.Context()), key).Err(); err != nil {
		app.logger.Warn("failed to release webhook dedup key", "key", key, "error", err)
	}
}

// finishLogEntry records how the delivery ended. The log write must
// survive a processing deadline that already fired, so it gets a
// detached context.
func (app *application) finishLogEntry(r *http.Request, entry *domain.WebhookEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
	defer cancel()

	if err := app.webhookLogRepo.UpdateOutcome(ctx, entry); err != nil {
		app.logger.Error("failed to update webhook log entry",
			"entry_id", entry.ID,
			"outcome", entry.Outcome,
			"error", err,
		)
	}
}

func dedupKey(provider, eventID string) string {
	return fmt.Sprintf("webhook_event:%s:%s", provider, eventID)
}

func (app *application) recordDelivery(ctx context.Context, kind string, outcome domain.WebhookOutcome) {
	if app.webhookDeliveries == nil {
		return
	}

	app.webhookDeliveries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event.kind", kind),
		attribute.String("event.outcome", string(outcome)),
	))
}
