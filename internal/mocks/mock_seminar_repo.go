package mocks

import (
	"context"

	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSeminarRepo struct {
	mock.Mock
	domain.SeminarRepository
}

func (m *MockSeminarRepo) GetById(ctx context.Context, id int64) (*domain.Seminar, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seminar), args.Error(1)
}

func (m *MockSeminarRepo) AdjustParticipants(ctx context.Context, seminarID int64, delta int) (*domain.Seminar, error) {
	args := m.Called(ctx, seminarID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seminar), args.Error(1)
}
