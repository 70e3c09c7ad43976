package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type SeminarStatus string

const (
	SeminarStatusDraft     SeminarStatus = "draft"
	SeminarStatusActive    SeminarStatus = "active"
	SeminarStatusSoldOut   SeminarStatus = "sold_out"
	SeminarStatusCancelled SeminarStatus = "cancelled"
)

type Seminar struct {
	ID                  int64
	Title               string
	Speaker             string
	Location            string
	StartsAt            time.Time
	Price               decimal.Decimal
	Currency            string
	MaxParticipants     int
	CurrentParticipants int
	Status              SeminarStatus
	CreatedAt           time.Time
	UpdatedAt           *time.Time
}

// HasOpenSeats reports whether a new registration may be accepted.
func (s *Seminar) HasOpenSeats() bool {
	return s.Status == SeminarStatusActive && s.CurrentParticipants < s.MaxParticipants
}

// ApplyParticipantDelta computes the participant count and status that
// result from applying delta (+1 on a completed payment, -1 on a refund).
// The count is clamped to [0, MaxParticipants] and the status only flips
// between active and sold_out; draft and cancelled are owned by the admin
// side and are left untouched.
func (s *Seminar) ApplyParticipantDelta(delta int) (count int, status SeminarStatus) {
	count = s.CurrentParticipants + delta
	if count < 0 {
		count = 0
	}
	if count > s.MaxParticipants {
		count = s.MaxParticipants
	}

	status = s.Status
	switch {
	case count >= s.MaxParticipants && s.Status == SeminarStatusActive:
		status = SeminarStatusSoldOut
	case count < s.MaxParticipants && s.Status == SeminarStatusSoldOut:
		status = SeminarStatusActive
	}

	return count, status
}

type SeminarRepository interface {
	GetById(ctx context.Context, id int64) (*Seminar, error)
	// AdjustParticipants applies delta to the seminar's participant count
	// and derives the open/sold-out status, persisting both in a single
	// transaction. Concurrent adjustments to the same seminar are
	// serialized by the implementation. Returns the updated seminar.
	AdjustParticipants(ctx context.Context, seminarID int64, delta int) (*Seminar, error)
}
