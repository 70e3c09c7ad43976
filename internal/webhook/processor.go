package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
)

// Processor owns the payment lifecycle transitions triggered by
// provider events. Every handler checks the payment's current status
// before transitioning, so re-delivered and out-of-order events
// degrade to no-ops instead of double-applying capacity changes.
type Processor struct {
	payments domain.PaymentRepository
	seminars domain.SeminarRepository
	logger   *slog.Logger
}

func NewProcessor(
	payments domain.PaymentRepository,
	seminars domain.SeminarRepository,
	logger *slog.Logger) *Processor {

	return &Processor{
		payments: payments,
		seminars: seminars,
		logger:   logger,
	}
}

// Router returns the dispatch table for all event kinds the processor
// understands. invoice.paid and invoice.cancelled are provider aliases
// for their payment.* counterparts.
func (p *Processor) Router() *Router {
	r := NewRouter()

	r.Register(KindPaymentCompleted, p.HandlePaymentCompleted)
	r.Register(KindInvoicePaid, p.HandlePaymentCompleted)
	r.Register(KindPaymentFailed, p.HandlePaymentFailed)
	r.Register(KindPaymentCancelled, p.HandlePaymentCancelled)
	r.Register(KindInvoiceCancelled, p.HandlePaymentCancelled)
	r.Register(KindPaymentRefunded, p.HandlePaymentRefunded)
	r.Register(KindInvoiceCreated, p.HandleInvoiceCreated)
	r.Register(KindInvoiceSent, p.HandleInvoiceSent)

	return r
}

// loadPayment resolves the event's payment id. A dangling reference is
// not actionable by the provider retrying, so it yields an ignored
// result with an error-level log line instead of a processing error.
func (p *Processor) loadPayment(ctx context.Context, event Event) (*domain.Payment, *Result, error) {
	payment, err := p.payments.GetById(ctx, event.Data.PaymentID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			p.logger.Error("webhook references unknown payment",
				"event_kind", event.RawKind,
				"payment_id", event.Data.PaymentID,
			)
			return nil, &Result{Outcome: domain.WebhookOutcomeIgnored, PaymentID: event.Data.PaymentID}, nil
		}
		return nil, nil, fmt.Errorf("load payment %s: %w", event.Data.PaymentID, err)
	}

	return payment, nil, nil
}

func (p *Processor) HandlePaymentCompleted(ctx context.Context, event Event) (Result, error) {
	payment, skip, err := p.loadPayment(ctx, event)
	if skip != nil || err != nil {
		return deref(skip), err
	}

	switch payment.Status {
	case domain.PaymentStatusCompleted, domain.PaymentStatusRefunded, domain.PaymentStatusCancelled:
		// Re-delivery or an event that lost the race against a later
		// transition. The seat was already counted (or released); doing
		// nothing here is what keeps the count correct.
		p.logger.Info("payment already settled, skipping transition",
			"payment_id", payment.ID, "status", payment.Status)
		return Result{Outcome: domain.WebhookOutcomeHandled, PaymentID: payment.ID}, nil
	}

	now := time.Now()
	payment.Status = domain.PaymentStatusCompleted
	payment.PaidAt = &now
	if event.Data.Method != "" {
		payment.Method = &event.Data.Method
	}

	if err := p.payments.UpdateStatus(ctx, payment); err != nil {
		return Result{Outcome: domain.WebhookOutcomeFailed, PaymentID: payment.ID},
			fmt.Errorf("mark payment %s completed: %w", payment.ID, err)
	}

	seminar, err := p.seminars.AdjustParticipants(ctx, payment.SeminarID, +1)
	if err != nil {
		// The payment write is not rolled back; the event log entry is
		// marked failed so the count can be reconciled by hand.
		return Result{Outcome: domain.WebhookOutcomeFailed, PaymentID: payment.ID},
			fmt.Errorf("adjust participants for seminar %d: %w", payment.SeminarID, err)
	}

	return Result{
		Outcome:   domain.WebhookOutcomeHandled,
		PaymentID: payment.ID,
		Notifications: []domain.Notification{
			notification(domain.NotificationPaymentConfirmed, payment, seminar.Title),
		},
	}, nil
}

func (p *Processor) HandlePaymentFailed(ctx context.Context, event Event) (Result, error) {
	payment, skip, err := p.loadPayment(ctx, event)
	if skip != nil || err != nil {
		return deref(skip), err
	}

	// A failure report only applies while the payment is still open; a
	// stale failed event must not clobber a completed payment.
	if payment.Status != domain.PaymentStatusPending && payment.Status != domain.PaymentStatusProcessing {
		p.logger.Info("ignoring failed event for settled payment",
			"payment_id", payment.ID, "status", payment.Status)
		return Result{Outcome: domain.WebhookOutcomeHandled, PaymentID: payment.ID}, nil
	}

	now := time.Now()
	payment.Status = domain.PaymentStatusFailed
	payment.FailedAt = &now
	if event.Data.Reason != "" {
		payment.FailureReason = &event.Data.Reason
	}

	if err := p.payments.UpdateStatus(ctx, payment); err != nil {
		return Result{Outcome: domain.WebhookOutcomeFailed, PaymentID: payment.ID},
			fmt.Errorf("mark payment %s failed: %w", payment.ID, err)
	}

	return Result{
		Outcome:   domain.WebhookOutcomeHandled,
		PaymentID: payment.ID,
		Notifications: []domain.Notification{
			notification(domain.NotificationPaymentFailed, payment, ""),
		},
	}, nil
}

func (p *Processor) HandlePaymentCancelled(ctx context.Context, event Event) (Result, error) {
	payment, skip, err := p.loadPayment(ctx, event)
	if skip != nil || err != nil {
		return deref(skip), err
	}

	if payment.Status == domain.PaymentStatusCancelled {
		return Result{Outcome: domain.WebhookOutcomeHandled, PaymentID: payment.ID}, nil
	}

	now := time.Now()
	payment.Status = domain.PaymentStatusCancelled
	payment.CancelledAt = &now

	if err := p.payments.UpdateStatus(ctx, payment); err != nil {
		return Result{Outcome: domain.WebhookOutcomeFailed, PaymentID: payment.ID},
			fmt.Errorf("mark payment %s cancelled: %w", payment.ID, err)
	}

	return Result{Outcome: domain.WebhookOutcomeHandled, PaymentID: payment.ID}, nil
}

func (p *Processor) HandlePaymentRefunded(ctx context.Context, event Event) (Result, error) {
	payment, skip, err := p.loadPayment(ctx, event)
	if skip != nil || err != nil {
		return deref(skip), err
	}

	if payment.Status == domain.PaymentStatusRefunded {
		return Result{Outcome: domain.WebhookOutcomeHandled, PaymentID: payment.ID}, nil
	}

	// Only a completed payment holds a seat, so only a completed
	// payment can give one back.
	if payment.Status != domain.PaymentStatusCompleted {
		p.logger.Warn("refund event for payment that was never completed",
			"payment_id", payment.ID, "status", payment.Status)
		return Result{Outcome: domain.WebhookOutcomeIgnored, PaymentID: payment.ID}, nil
	}

	now := time.Now()
	payment.Status = domain.PaymentStatusRefunded
	payment.RefundedAt = &now

	refundAmount := payment.Amount
	if !event.Data.RefundAmount.IsZero() {
		refundAmount = event.Data.RefundAmount
	}
	payment.RefundAmount = &refundAmount

	if err := p.payments.UpdateStatus(ctx, payment); err != nil {
		return Result{Outcome: domain.WebhookOutcomeFailed, PaymentID: payment.ID},
			fmt.Errorf("mark payment %s refunded: %w", payment.ID, err)
	}

	seminar, err := p.seminars.AdjustParticipants(ctx, payment.SeminarID, -1)
	if err != nil {
		return Result{Outcome: domain.WebhookOutcomeFailed, PaymentID: payment.ID},
			fmt.Errorf("adjust participants for seminar %d: %w", payment.SeminarID, err)
	}

	result := Result{
		Outcome:   domain.WebhookOutcomeHandled,
		PaymentID: payment.ID,
		Notifications: []domain.Notification{
			notification(domain.NotificationPaymentRefunded, payment, seminar.Title),
		},
	}
	result.Notifications[0].Amount = refundAmount

	return result, nil
}

func (p *Processor) HandleInvoiceCreated(ctx context.Context, event Event) (Result, error) {
	payment, skip, err := p.loadPayment(ctx, event)
	if skip != nil || err != nil {
		return deref(skip), err
	}

	if event.Data.InvoiceID != "" {
		payment.InvoiceID = &event.Data.InvoiceID
	}
	if event.Data.InvoiceNumber != "" {
		payment.InvoiceNumber = &event.Data.InvoiceNumber
	}

	// Invoice creation moves an untouched payment into processing but
	// never walks a later status back.
	if payment.Status == domain.PaymentStatusPending {
		payment.Status = domain.PaymentStatusProcessing
	}

	if err := p.payments.UpdateStatus(ctx, payment); err != nil {
		return Result{Outcome: domain.WebhookOutcomeFailed, PaymentID: payment.ID},
			fmt.Errorf("attach invoice to payment %s: %w", payment.ID, err)
	}

	return Result{Outcome: domain.WebhookOutcomeHandled, PaymentID: payment.ID}, nil
}

// HandleInvoiceSent is informational only; the payment is resolved so
// the log entry gets associated, but nothing is mutated.
func (p *Processor) HandleInvoiceSent(ctx context.Context, event Event) (Result, error) {
	payment, skip, err := p.loadPayment(ctx, event)
	if skip != nil || err != nil {
		return deref(skip), err
	}

	return Result{Outcome: domain.WebhookOutcomeHandled, PaymentID: payment.ID}, nil
}

func notification(kind domain.NotificationKind, payment *domain.Payment, seminarTitle string) domain.Notification {
	return domain.Notification{
		Kind:            kind,
		RecipientEmail:  payment.ParticipantEmail,
		RecipientPhone:  payment.ParticipantPhone,
		ParticipantName: payment.ParticipantName,
		SeminarTitle:    seminarTitle,
		Amount:          payment.Amount,
		Currency:        payment.Currency,
	}
}

func deref(r *Result) Result {
	if r == nil {
		return Result{}
	}
	return *r
}
