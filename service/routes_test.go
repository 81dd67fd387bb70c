package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"
	"github.com/thisishowislab/slabcity-studio/internal/contentful"
)

func tarotSnapshot() *contentful.Snapshot {
	return &contentful.Snapshot{
		Entries: []contentful.Entry{
			{
				Sys: contentful.Sys{ID: "e1", Type: "Entry"},
				Fields: contentful.Fields{
					"productName": json.RawMessage(`"Tarot Deck"`),
					"slug":        json.RawMessage(`"tarot"`),
					"variantUx":   json.RawMessage(`"{\"price\":28,\"stripePriceId\":\"price_abc\"}"`),
				},
			},
		},
	}
}

func serve(e http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	e, _ := setupTestEcho(t, tarotSnapshot())

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"Health check", "GET", "/health", "", http.StatusOK},
		{"Catalog", "GET", "/api/catalog", "", http.StatusOK},
		{"Product detail", "GET", "/api/products/tarot", "", http.StatusOK},
		{"Unknown product", "GET", "/api/products/missing", "", http.StatusOK},
		{"Marketplace", "GET", "/api/marketplace?q=tarot", "", http.StatusOK},
		{"Stripe probe", "GET", "/api/stripe-test", "", http.StatusOK},
		{"Checkout without price", "POST", "/api/checkout", `{}`, http.StatusBadRequest},
		{"Unknown checkout session", "GET", "/api/checkout/sessions/cs_nope", "", http.StatusNotFound},
		{"Webhook ignored event", "POST", "/api/stripe/webhook", `{"type":"customer.created","data":{"object":{}}}`, http.StatusOK},
		{"Unknown route", "GET", "/nope", "", http.StatusNotFound},
		{"Wrong method", "GET", "/api/checkout", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code,
				"Route %s %s should return %d, got %d",
				tt.method, tt.path, tt.wantStatus, rec.Code)
		})
	}
}

func TestRoutes_ErrorsAreJSON(t *testing.T) {
	e, _ := setupTestEcho(t, nil)

	for _, path := range []string{"/nope", "/api/nope"} {
		rec := serve(e, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
	}
}

// TestTarotDeckEndToEnd buys the product exactly as the storefront would:
// read the catalog, then check out its price.
func TestTarotDeckEndToEnd(t *testing.T) {
	e, provider := setupTestEcho(t, tarotSnapshot())
	provider.Prices["price_abc"] = &stripe.Price{ID: "price_abc", Type: stripe.PriceTypeOneTime}

	rec := serve(e, http.MethodGet, "/api/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, s-maxage=60, stale-while-revalidate=60", rec.Header().Get("Cache-Control"))

	var cat struct {
		Products []struct {
			Name          string  `json:"name"`
			Slug          string  `json:"slug"`
			Price         float64 `json:"price"`
			StripePriceID *string `json:"stripePriceId"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cat))
	require.Len(t, cat.Products, 1)

	tarot := cat.Products[0]
	assert.Equal(t, "Tarot Deck", tarot.Name)
	assert.Equal(t, "tarot", tarot.Slug)
	assert.Equal(t, 28.0, tarot.Price)
	require.NotNil(t, tarot.StripePriceID)
	assert.Equal(t, "price_abc", *tarot.StripePriceID)

	rec = serve(e, http.MethodPost, "/api/checkout",
		`{"priceId":"`+*tarot.StripePriceID+`","mode":"subscription","requireShipping":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"url":"https://checkout.stripe.com/c/pay/cs_test_1","mode":"payment"}`, rec.Body.String())

	rec = serve(e, http.MethodGet, "/api/checkout/sessions/cs_test_1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var session struct {
		Status string `json:"status"`
		Mode   string `json:"mode"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, "open", session.Status)
	assert.Equal(t, "payment", session.Mode)

	rec = serve(e, http.MethodPost, "/api/stripe/webhook",
		`{"type":"checkout.session.completed","data":{"object":{"id":"cs_test_1","amount_total":2800,"payment_status":"paid"}}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, http.MethodGet, "/api/checkout/sessions/cs_test_1", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, "completed", session.Status)
}
