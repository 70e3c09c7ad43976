package webhook

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// Kind is the closed set of provider event kinds this service reacts
// to. Kinds outside the set decode to KindUnknown rather than failing,
// since providers add new event kinds without notice.
type Kind string

const (
	KindPaymentCompleted Kind = "payment.completed"
	KindPaymentFailed    Kind = "payment.failed"
	KindPaymentCancelled Kind = "payment.cancelled"
	KindPaymentRefunded  Kind = "payment.refunded"
	KindInvoiceCreated   Kind = "invoice.created"
	KindInvoiceSent      Kind = "invoice.sent"
	KindInvoicePaid      Kind = "invoice.paid"
	KindInvoiceCancelled Kind = "invoice.cancelled"
	KindUnknown          Kind = ""
)

var knownKinds = map[string]Kind{
	string(KindPaymentCompleted): KindPaymentCompleted,
	string(KindPaymentFailed):    KindPaymentFailed,
	string(KindPaymentCancelled): KindPaymentCancelled,
	string(KindPaymentRefunded):  KindPaymentRefunded,
	string(KindInvoiceCreated):   KindInvoiceCreated,
	string(KindInvoiceSent):      KindInvoiceSent,
	string(KindInvoicePaid):      KindInvoicePaid,
	string(KindInvoiceCancelled): KindInvoiceCancelled,
}

// ErrMalformedPayload marks a body that lacks the envelope shape
// (a string event kind plus a data object). It is the only hard
// validation failure at this stage; business fields are checked by the
// handlers that need them.
var ErrMalformedPayload = errors.New("webhook payload is malformed")

// Event is a decoded provider notification.
type Event struct {
	// ID is the provider-issued event id, used for duplicate-delivery
	// detection. Providers may omit it.
	ID string
	// Kind is the classified event kind, KindUnknown if unrecognized.
	Kind Kind
	// RawKind preserves the kind string as received, for logging.
	RawKind string
	Data    EventData
}

// EventData carries the payment-level fields of the event. All fields
// are optional at decode time.
type EventData struct {
	PaymentID     string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Method        string          `json:"method"`
	Reason        string          `json:"reason"`
	RefundAmount  decimal.Decimal `json:"refund_amount"`
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
}

type envelope struct {
	ID    string          `json:"id"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ParseEvent decodes and structurally validates a raw webhook body.
func ParseEvent(body []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Event{}, ErrMalformedPayload
	}

	if env.Event == "" || len(env.Data) == 0 {
		return Event{}, ErrMalformedPayload
	}

	// data must be a JSON object; null, arrays and scalars would all
	// unmarshal into a zero EventData without complaint.
	raw := bytes.TrimSpace(env.Data)
	if len(raw) == 0 || raw[0] != '{' {
		return Event{}, ErrMalformedPayload
	}

	var data EventData
	if err := json.Unmarshal(raw, &data); err != nil {
		return Event{}, ErrMalformedPayload
	}

	return Event{
		ID:      env.ID,
		Kind:    knownKinds[env.Event],
		RawKind: env.Event,
		Data:    data,
	}, nil
}
