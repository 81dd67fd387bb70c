package stripe

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"
)

func TestIsRecurring(t *testing.T) {
	assert.False(t, IsRecurring(nil))
	assert.False(t, IsRecurring(&stripe.Price{Type: stripe.PriceTypeOneTime}))
	assert.True(t, IsRecurring(&stripe.Price{Type: stripe.PriceTypeRecurring}))
	assert.True(t, IsRecurring(&stripe.Price{
		Recurring: &stripe.PriceRecurring{Interval: stripe.PriceRecurringIntervalYear},
	}))
}

func TestIsConfigured(t *testing.T) {
	assert.False(t, NewStripeService("").IsConfigured())
	assert.True(t, NewStripeService("sk_test_123").IsConfigured())
}

// TestLiveGetPrice reads a real price from Stripe test mode.
// It is skipped unless STRIPE_LIVE_TEST=1.
//
// Usage:
//
//	STRIPE_LIVE_TEST=1 STRIPE_SECRET_KEY=sk_test_xxx STRIPE_PRICE_ID=price_xxx go test ./internal/stripe -run TestLiveGetPrice
func TestLiveGetPrice(t *testing.T) {
	if os.Getenv("STRIPE_LIVE_TEST") != "1" {
		t.Skip("Skipping live Stripe API test. Set STRIPE_LIVE_TEST=1 to enable.")
	}

	key := os.Getenv("STRIPE_SECRET_KEY")
	require.True(t, strings.HasPrefix(key, "sk_test_"), "STRIPE_SECRET_KEY must be a test-mode key")
	priceID := os.Getenv("STRIPE_PRICE_ID")
	require.NotEmpty(t, priceID, "STRIPE_PRICE_ID environment variable must be set")

	svc := NewStripeService(key)
	price, err := svc.GetPrice(context.Background(), priceID)
	require.NoError(t, err)
	assert.Equal(t, priceID, price.ID)
	t.Logf("price %s recurring=%t", price.ID, IsRecurring(price))

	_, err = svc.GetPrice(context.Background(), "price_does_not_exist")
	var se *stripe.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, stripe.ErrorCodeResourceMissing, se.Code)
}
