package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/stripe/stripe-go/v80"
)

// FakeProvider is an in-memory Provider for tests. Prices maps a price id to
// its record; unknown ids fail like Stripe does.
type FakeProvider struct {
	Configured bool
	Prices     map[string]*stripe.Price
	CreateErr  error

	mu           sync.Mutex
	PriceCalls   int
	SessionCalls int
	LastParams   *stripe.CheckoutSessionParams
}

// NewFakeProvider returns a configured provider knowing a one-time price
// "price_once" and a monthly price "price_monthly".
func NewFakeProvider() *FakeProvider {
	once := &stripe.Price{ID: "price_once", Type: stripe.PriceTypeOneTime, Active: true}
	monthly := &stripe.Price{
		ID:        "price_monthly",
		Type:      stripe.PriceTypeRecurring,
		Active:    true,
		Recurring: &stripe.PriceRecurring{Interval: stripe.PriceRecurringIntervalMonth},
	}

	return &FakeProvider{
		Configured: true,
		Prices: map[string]*stripe.Price{
			once.ID:    once,
			monthly.ID: monthly,
		},
	}
}

func (f *FakeProvider) IsConfigured() bool {
	return f.Configured
}

func (f *FakeProvider) GetPrice(ctx context.Context, priceID string) (*stripe.Price, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PriceCalls++

	p, ok := f.Prices[priceID]
	if !ok {
		return nil, fmt.Errorf("get price %s: %w", priceID, &stripe.Error{
			Code:           stripe.ErrorCodeResourceMissing,
			HTTPStatusCode: 404,
			Msg:            fmt.Sprintf("No such price: '%s'", priceID),
			Type:           stripe.ErrorTypeInvalidRequest,
		})
	}
	return p, nil
}

func (f *FakeProvider) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SessionCalls++
	f.LastParams = params

	if f.CreateErr != nil {
		return nil, f.CreateErr
	}

	id := fmt.Sprintf("cs_test_%d", f.SessionCalls)
	return &stripe.CheckoutSession{
		ID:   id,
		URL:  "https://checkout.stripe.com/c/pay/" + id,
		Mode: stripe.CheckoutSessionMode(stripe.StringValue(params.Mode)),
	}, nil
}

// Calls returns the total number of provider calls made.
func (f *FakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.PriceCalls + f.SessionCalls
}
