package notifier

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
	"github.com/ozgurarslan/seminar-booking-system/internal/mailer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func confirmation() domain.Notification {
	return domain.Notification{
		Kind:            domain.NotificationPaymentConfirmed,
		RecipientEmail:  "elif@example.com",
		RecipientPhone:  "+31612345678",
		ParticipantName: "Elif Demir",
		SeminarTitle:    "Negotiation Basics",
		Amount:          decimal.NewFromInt(480),
		Currency:        "EUR",
	}
}

func TestDispatchSendsEmail(t *testing.T) {
	mockMailer := mailer.NewMockMailer()
	dispatcher := New(mockMailer, nil, "", discardLogger())

	dispatcher.Dispatch(confirmation())
	dispatcher.Close()

	sent := mockMailer.SentEmails()
	require.Len(t, sent, 1)
	assert.Equal(t, "elif@example.com", sent[0].Recipient)
	assert.Equal(t, "payment_confirmed.tmpl", sent[0].TemplateFile)
}

func TestDispatchPicksTemplateByKind(t *testing.T) {
	tests := []struct {
		kind domain.NotificationKind
		want string
	}{
		{domain.NotificationPaymentConfirmed, "payment_confirmed.tmpl"},
		{domain.NotificationPaymentFailed, "payment_failed.tmpl"},
		{domain.NotificationPaymentRefunded, "payment_refunded.tmpl"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			mockMailer := mailer.NewMockMailer()
			dispatcher := New(mockMailer, nil, "", discardLogger())

			n := confirmation()
			n.Kind = tt.kind

			dispatcher.Dispatch(n)
			dispatcher.Close()

			sent := mockMailer.SentEmails()
			require.Len(t, sent, 1)
			assert.Equal(t, tt.want, sent[0].TemplateFile)
		})
	}
}

func TestDispatchSwallowsMailerFailure(t *testing.T) {
	mockMailer := mailer.NewMockMailer()
	mockMailer.Err = errors.New("smtp: connection refused")
	dispatcher := New(mockMailer, nil, "", discardLogger())

	dispatcher.Dispatch(confirmation())
	dispatcher.Close()

	assert.Empty(t, mockMailer.SentEmails())
}

func TestDispatchSkipsWhenNotConfigured(t *testing.T) {
	dispatcher := New(nil, nil, "", discardLogger())

	// Must not panic or block.
	dispatcher.Dispatch(confirmation())
	dispatcher.Close()
}
