package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

type StripePaymentProvider struct {
	successUrl string
	failureUrl string
}

func NewStripePaymentProvider(successUrl, failureUrl string) *StripePaymentProvider {
	return &StripePaymentProvider{
		successUrl: successUrl,
		failureUrl: failureUrl,
	}
}

func (s *StripePaymentProvider) CreateCheckoutSession(
	ctx context.Context,
	seminar *domain.Seminar,
	payment *domain.Payment) (*domain.CheckoutSession, error) {

	priceCents := payment.Amount.Mul(decimal.NewFromInt(100)).IntPart()

	params := &stripe.CheckoutSessionParams{
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(payment.Currency),
					UnitAmount: stripe.Int64(priceCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Seminar: %s", seminar.Title)),
						Description: stripe.String(fmt.Sprintf(
							"Speaker: %s • Location: %s • Date: %s",
							seminar.Speaker,
							seminar.Location,
							seminar.StartsAt.Format("Jan 2, 2006 15:04"),
						)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successUrl),
		CancelURL:  stripe.String(s.failureUrl),
		Metadata: map[string]string{
			"seminar_id":        strconv.FormatInt(seminar.ID, 10),
			"participant_email": payment.ParticipantEmail,
		},
		CustomerEmail: &payment.ParticipantEmail,
	}
	params.Context = ctx

	checkoutSession, err := session.New(params)
	if err != nil {
		return nil, err
	}

	return &domain.CheckoutSession{
		ID:  checkoutSession.ID,
		URL: checkoutSession.URL,
	}, nil
}
