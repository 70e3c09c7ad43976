package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
)

type PostgresSeminarRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgresSeminarRepository(db *pgxpool.Pool, logger *slog.Logger) *PostgresSeminarRepository {
	return &PostgresSeminarRepository{
		db:     db,
		logger: logger,
	}
}

const seminarColumns = `
	id,
	title,
	speaker,
	location,
	starts_at,
	price,
	currency,
	max_participants,
	current_participants,
	status,
	created_at,
	updated_at
`

func scanSeminar(row pgx.Row) (*domain.Seminar, error) {
	var seminar domain.Seminar

	err := row.Scan(
		&seminar.ID,
		&seminar.Title,
		&seminar.Speaker,
		&seminar.Location,
		&seminar.StartsAt,
		&seminar.Price,
		&seminar.Currency,
		&seminar.MaxParticipants,
		&seminar.CurrentParticipants,
		&seminar.Status,
		&seminar.CreatedAt,
		&seminar.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	return &seminar, nil
}

func (p *PostgresSeminarRepository) GetById(ctx context.Context, id int64) (*domain.Seminar, error) {
	query := `SELECT ` + seminarColumns + ` FROM seminars WHERE id = $1`

	return scanSeminar(p.db.QueryRow(ctx, query, id))
}

// AdjustParticipants applies delta inside a transaction that locks the
// seminar row, so concurrent webhook deliveries touching the same
// seminar serialize on the row lock instead of losing updates in the
// read-modify-write. Count and status are persisted together.
func (p *PostgresSeminarRepository) AdjustParticipants(
	ctx context.Context,
	seminarID int64,
	delta int) (*domain.Seminar, error) {

	var seminar *domain.Seminar

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `SELECT ` + seminarColumns + ` FROM seminars WHERE id = $1 FOR UPDATE`

		var err error
		seminar, err = scanSeminar(tx.QueryRow(ctx, query, seminarID))
		if err != nil {
			return err
		}

		count, status := seminar.ApplyParticipantDelta(delta)

		// A clamped count means a completion or refund arrived for a
		// seminar already at its bound; the registration behind it is
		// real money, so it needs an operator's eyes.
		if raw := seminar.CurrentParticipants + delta; raw != count {
			p.logger.Warn("participant count clamped",
				"seminar_id", seminarID,
				"raw_count", raw,
				"count", count,
				"max_participants", seminar.MaxParticipants,
			)
		}

		query = `
			UPDATE seminars
			SET current_participants = $1, status = $2, updated_at = NOW()
			WHERE id = $3
		`

		if _, err := tx.Exec(ctx, query, count, status, seminarID); err != nil {
			return err
		}

		seminar.CurrentParticipants = count
		seminar.Status = status

		return nil
	})
	if err != nil {
		return nil, err
	}

	return seminar, nil
}
