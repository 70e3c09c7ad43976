package domain

import "github.com/shopspring/decimal"

type NotificationKind string

const (
	NotificationPaymentConfirmed NotificationKind = "payment_confirmed"
	NotificationPaymentFailed    NotificationKind = "payment_failed"
	NotificationPaymentRefunded  NotificationKind = "payment_refunded"
)

// Notification is a side-effect request produced by webhook processing.
// It is plain data so the processor stays pure; the dispatcher decides
// how (and whether) to deliver it.
type Notification struct {
	Kind            NotificationKind
	RecipientEmail  string
	RecipientPhone  string
	ParticipantName string
	SeminarTitle    string
	Amount          decimal.Decimal
	Currency        string
}

// Notifier delivers notifications on a best-effort basis. Dispatch must
// not block the caller and must swallow delivery failures.
type Notifier interface {
	Dispatch(n Notification)
}
