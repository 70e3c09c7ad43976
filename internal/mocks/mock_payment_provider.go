package mocks

import (
	"context"

	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockPaymentProvider struct {
	mock.Mock
	domain.PaymentProvider
}

func (m *MockPaymentProvider) CreateCheckoutSession(
	ctx context.Context,
	seminar *domain.Seminar,
	payment *domain.Payment) (*domain.CheckoutSession, error) {

	args := m.Called(ctx, seminar, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}
