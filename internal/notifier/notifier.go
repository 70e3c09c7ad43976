package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
	"github.com/ozgurarslan/seminar-booking-system/internal/mailer"
	"github.com/redis/go-redis/v9"
)

var templatesByKind = map[domain.NotificationKind]string{
	domain.NotificationPaymentConfirmed: "payment_confirmed.tmpl",
	domain.NotificationPaymentFailed:    "payment_failed.tmpl",
	domain.NotificationPaymentRefunded:  "payment_refunded.tmpl",
}

// Dispatcher executes notification effects in the background. Delivery
// is strictly best effort: each notification runs on its own goroutine
// with its own deadline, failures are logged and swallowed, and a
// missing channel configuration downgrades to a skip. Nothing here can
// delay or fail the webhook response.
type Dispatcher struct {
	mailer  mailer.Mailer         // nil disables email
	redis   redis.UniversalClient // nil disables messenger notices
	channel string
	logger  *slog.Logger
	timeout time.Duration

	wg sync.WaitGroup
}

func New(m mailer.Mailer, rdb redis.UniversalClient, channel string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		mailer:  m,
		redis:   rdb,
		channel: channel,
		logger:  logger,
		timeout: 10 * time.Second,
	}
}

func (d *Dispatcher) Dispatch(n domain.Notification) {
	d.wg.Add(1)

	go func() {
		defer d.wg.Done()
		defer func() {
			if err := recover(); err != nil {
				d.logger.Error("notification dispatch panicked", "error", err, "kind", n.Kind)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		d.deliver(ctx, n)
	}()
}

func (d *Dispatcher) deliver(ctx context.Context, n domain.Notification) {
	d.sendEmail(n)

	// Confirmations additionally go out through the messenger bot.
	if n.Kind == domain.NotificationPaymentConfirmed {
		d.publishNotice(ctx, n)
	}
}

func (d *Dispatcher) sendEmail(n domain.Notification) {
	if d.mailer == nil {
		d.logger.Info("mailer not configured, skipping notification email", "kind", n.Kind)
		return
	}

	templateFile, ok := templatesByKind[n.Kind]
	if !ok {
		d.logger.Error("no email template for notification kind", "kind", n.Kind)
		return
	}

	if err := d.mailer.Send(n.RecipientEmail, templateFile, n); err != nil {
		d.logger.Error("failed to send notification email",
			"kind", n.Kind,
			"recipient", n.RecipientEmail,
			"error", err,
		)
	}
}

func (d *Dispatcher) publishNotice(ctx context.Context, n domain.Notification) {
	if d.redis == nil || d.channel == "" {
		d.logger.Info("messenger channel not configured, skipping notice", "kind", n.Kind)
		return
	}

	payload, err := json.Marshal(map[string]string{
		"kind":    string(n.Kind),
		"phone":   n.RecipientPhone,
		"name":    n.ParticipantName,
		"seminar": n.SeminarTitle,
		"amount":  n.Amount.StringFixed(2),
	})
	if err != nil {
		d.logger.Error("failed to marshal messenger notice", "error", err)
		return
	}

	if err := d.redis.Publish(ctx, d.channel, payload).Err(); err != nil {
		d.logger.Error("failed to publish messenger notice", "channel", d.channel, "error", err)
	}
}

// Close waits for in-flight notifications to finish, up to the
// dispatcher timeout. Used during graceful shutdown.
func (d *Dispatcher) Close() {
	done := make(chan struct{})

	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(d.timeout):
		d.logger.Warn("timed out waiting for in-flight notifications")
	}
}
