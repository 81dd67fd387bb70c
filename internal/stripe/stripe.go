package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
)

// StripeService talks to the Stripe API with a key injected at construction
// instead of the package-global stripe.Key.
type StripeService struct {
	apiKey string
	api    *client.API
}

func NewStripeService(apiKey string) *StripeService {
	api := &client.API{}
	api.Init(apiKey, nil)

	return &StripeService{
		apiKey: apiKey,
		api:    api,
	}
}

func (s *StripeService) IsConfigured() bool {
	return s.apiKey != ""
}

// GetPrice fetches the authoritative price record for a price id.
func (s *StripeService) GetPrice(ctx context.Context, priceID string) (*stripe.Price, error) {
	params := &stripe.PriceParams{}
	params.Context = ctx

	p, err := s.api.Prices.Get(priceID, params)
	if err != nil {
		return nil, fmt.Errorf("get price %s: %w", priceID, err)
	}
	return p, nil
}

// CreateCheckoutSession creates a hosted Checkout session.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params.Context = ctx

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return session, nil
}

// IsRecurring reports whether a price bills on an interval.
func IsRecurring(p *stripe.Price) bool {
	if p == nil {
		return false
	}
	return p.Type == stripe.PriceTypeRecurring || p.Recurring != nil
}
