package mocks

import (
	"context"
	"time"

	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockWebhookLogRepo struct {
	mock.Mock
	domain.WebhookLogRepository
}

func (m *MockWebhookLogRepo) Append(ctx context.Context, event *domain.WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockWebhookLogRepo) UpdateOutcome(ctx context.Context, event *domain.WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockWebhookLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
