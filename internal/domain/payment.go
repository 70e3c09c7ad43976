package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// Payment tracks a single registration payment. The ID is the
// provider-assigned payment id, so webhook events can be resolved
// without an extra lookup table. Amount and currency are fixed at
// creation; only the lifecycle fields below change afterwards.
type Payment struct {
	ID               string
	SeminarID        int64
	ParticipantName  string
	ParticipantEmail string
	ParticipantPhone string
	Amount           decimal.Decimal
	Currency         string
	Status           PaymentStatus
	Method           *string
	InvoiceID        *string
	InvoiceNumber    *string
	FailureReason    *string
	RefundAmount     *decimal.Decimal
	PaidAt           *time.Time
	FailedAt         *time.Time
	CancelledAt      *time.Time
	RefundedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetById(ctx context.Context, id string) (*Payment, error)
	// UpdateStatus persists the payment's status and lifecycle fields.
	// Amount, currency and participant data are never rewritten.
	UpdateStatus(ctx context.Context, payment *Payment) error
}
