package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v80"
	stripesvc "github.com/thisishowislab/slabcity-studio/internal/stripe"
)

// Mode is the Checkout session mode.
type Mode string

const (
	ModePayment      Mode = "payment"
	ModeSubscription Mode = "subscription"
)

// maxQuantity keeps absurd client input inside int64 range.
const maxQuantity = math.MaxInt32

var defaultAllowedCountries = []string{"US"}

// ParseMode accepts the Stripe names and the one-time/recurring aliases used
// by older storefront pages. An empty string means "no preference".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "payment", "one-time", "one_time", "onetime":
		return ModePayment, nil
	case "subscription", "recurring":
		return ModeSubscription, nil
	}
	return "", &ValidationError{Message: fmt.Sprintf("Invalid mode %q", s)}
}

// NormalizeQuantity floors q and clamps it to at least 1. Zero, negative and
// non-finite values become 1.
func NormalizeQuantity(q float64) int64 {
	if math.IsNaN(q) || math.IsInf(q, 0) || q < 1 {
		return 1
	}
	q = math.Floor(q)
	if q > maxQuantity {
		return maxQuantity
	}
	return int64(q)
}

// Provider is the subset of the payment provider the builder needs.
type Provider interface {
	IsConfigured() bool
	GetPrice(ctx context.Context, priceID string) (*stripe.Price, error)
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type Config struct {
	// BaseURL is the public site root redirects return to.
	BaseURL          string
	AllowedCountries []string
}

// Request is one purchase attempt. Quantity zero means "unset".
type Request struct {
	PriceID         string
	Quantity        float64
	Mode            Mode
	RequireShipping bool
	// Reference is passed to Stripe as client_reference_id.
	Reference string
}

// Session is the created Checkout session.
type Session struct {
	ID            string
	URL           string
	Mode          Mode
	RequestedMode Mode
	Quantity      int64
}

type Builder struct {
	provider Provider
	cfg      Config
}

func NewBuilder(provider Provider, cfg Config) *Builder {
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if len(cfg.AllowedCountries) == 0 {
		cfg.AllowedCountries = defaultAllowedCountries
	}
	return &Builder{provider: provider, cfg: cfg}
}

// Create validates req, looks the price up, and creates a Checkout session
// whose mode matches the price: recurring prices always get a subscription
// session and one-time prices a payment session, whatever the caller asked
// for. Nothing is retried.
func (b *Builder) Create(ctx context.Context, req Request) (*Session, error) {
	req.PriceID = strings.TrimSpace(req.PriceID)
	if req.PriceID == "" {
		return nil, &ValidationError{Message: "Missing priceId"}
	}
	if !b.provider.IsConfigured() {
		return nil, ErrNotConfigured
	}

	price, err := b.provider.GetPrice(ctx, req.PriceID)
	if err != nil {
		return nil, newProviderError(err)
	}

	mode := ModePayment
	if stripesvc.IsRecurring(price) {
		mode = ModeSubscription
	}
	// TODO: reject mismatched modes once every storefront page sends the
	// price's real mode; until then the override hides caller bugs.
	if req.Mode != "" && req.Mode != mode {
		slog.Warn("checkout mode overridden to match price",
			"price_id", req.PriceID,
			"requested_mode", req.Mode,
			"mode", mode)
	}

	quantity := NormalizeQuantity(req.Quantity)
	params := b.sessionParams(req, mode, quantity)

	session, err := b.provider.CreateCheckoutSession(ctx, params)
	if err != nil {
		return nil, newProviderError(err)
	}

	slog.Info("checkout session created",
		"session_id", session.ID,
		"price_id", req.PriceID,
		"mode", mode,
		"quantity", quantity,
		"require_shipping", req.RequireShipping)

	return &Session{
		ID:            session.ID,
		URL:           session.URL,
		Mode:          mode,
		RequestedMode: req.Mode,
		Quantity:      quantity,
	}, nil
}

func (b *Builder) sessionParams(req Request, mode Mode, quantity int64) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(mode)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(quantity),
			},
		},
		SuccessURL:          stripe.String(b.cfg.BaseURL + "/?success=1&session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:           stripe.String(b.cfg.BaseURL + "/?canceled=1"),
		AllowPromotionCodes: stripe.Bool(true),
	}

	if req.RequireShipping {
		params.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(b.cfg.AllowedCountries),
		}
		params.BillingAddressCollection = stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired))
	}

	if req.Reference != "" {
		params.ClientReferenceID = stripe.String(req.Reference)
	}
	params.AddMetadata("price_id", req.PriceID)

	return params
}
