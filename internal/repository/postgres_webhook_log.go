package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
)

type PostgresWebhookLogRepository struct {
	db *pgxpool.Pool
}

func NewPostgresWebhookLogRepository(db *pgxpool.Pool) *PostgresWebhookLogRepository {
	return &PostgresWebhookLogRepository{
		db: db,
	}
}

func (p *PostgresWebhookLogRepository) Append(ctx context.Context, event *domain.WebhookEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	query := `
		INSERT INTO webhook_events (id, provider, event_id, kind, payload, outcome)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING received_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		event.ID,
		event.Provider,
		event.EventID,
		event.Kind,
		event.Payload,
		event.Outcome,
	).Scan(&event.ReceivedAt)

	if err != nil {
		// The partial unique index on (provider, event_id) turns an
		// exact re-delivery into a constraint violation.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrDuplicateEvent
		}

		return err
	}

	return nil
}

// UpdateOutcome records how a delivery ended. event_id is written back
// as well: callers clear it on retryable failures, which frees the
// unique index so the provider's retry of the same event id is
// processed instead of being rejected as a duplicate.
func (p *PostgresWebhookLogRepository) UpdateOutcome(ctx context.Context, event *domain.WebhookEvent) error {
	query := `
		UPDATE webhook_events
		SET outcome = $1, payment_id = $2, error_message = $3, event_id = $4, processed_at = NOW()
		WHERE id = $5
	`

	_, err := p.db.Exec(ctx, query, event.Outcome, event.PaymentID, event.ErrorMessage, event.EventID, event.ID)
	return err
}

func (p *PostgresWebhookLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM webhook_events WHERE received_at < $1`

	tag, err := p.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
