package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
)

type PostgresPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPaymentRepository(db *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		db: db,
	}
}

func (p *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			id,
			seminar_id,
			participant_name,
			participant_email,
			participant_phone,
			amount,
			currency,
			status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	return p.db.QueryRow(
		ctx,
		query,
		payment.ID,
		payment.SeminarID,
		payment.ParticipantName,
		payment.ParticipantEmail,
		payment.ParticipantPhone,
		payment.Amount,
		payment.Currency,
		payment.Status,
	).Scan(&payment.CreatedAt)
}

func (p *PostgresPaymentRepository) GetById(ctx context.Context, id string) (*domain.Payment, error) {
	query := `
		SELECT
			id,
			seminar_id,
			participant_name,
			participant_email,
			participant_phone,
			amount,
			currency,
			status,
			method,
			invoice_id,
			invoice_number,
			failure_reason,
			refund_amount,
			paid_at,
			failed_at,
			cancelled_at,
			refunded_at,
			created_at,
			updated_at
		FROM payments
		WHERE id = $1
	`

	var payment domain.Payment

	err := p.db.QueryRow(ctx, query, id).Scan(
		&payment.ID,
		&payment.SeminarID,
		&payment.ParticipantName,
		&payment.ParticipantEmail,
		&payment.ParticipantPhone,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.Method,
		&payment.InvoiceID,
		&payment.InvoiceNumber,
		&payment.FailureReason,
		&payment.RefundAmount,
		&payment.PaidAt,
		&payment.FailedAt,
		&payment.CancelledAt,
		&payment.RefundedAt,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	return &payment, nil
}

func (p *PostgresPaymentRepository) UpdateStatus(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET status = $1,
			method = $2,
			invoice_id = $3,
			invoice_number = $4,
			failure_reason = $5,
			refund_amount = $6,
			paid_at = $7,
			failed_at = $8,
			cancelled_at = $9,
			refunded_at = $10,
			updated_at = NOW()
		WHERE id = $11
	`

	tag, err := p.db.Exec(
		ctx,
		query,
		payment.Status,
		payment.Method,
		payment.InvoiceID,
		payment.InvoiceNumber,
		payment.FailureReason,
		payment.RefundAmount,
		payment.PaidAt,
		payment.FailedAt,
		payment.CancelledAt,
		payment.RefundedAt,
		payment.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
