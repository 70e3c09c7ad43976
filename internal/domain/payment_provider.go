package domain

import "context"

// CheckoutSession is the provider-side session a participant is
// redirected to in order to pay.
type CheckoutSession struct {
	ID  string
	URL string
}

type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, seminar *Seminar, payment *Payment) (*CheckoutSession, error)
}
