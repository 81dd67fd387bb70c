package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePricing(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantOK     bool
		wantPrice  float64
		wantID     string
		wantKey    string
		wantLabels []string
	}{
		{
			name:      "defaultKey selects variant",
			raw:       `{"defaultKey": "large", "variants": {"small": {"price": 20, "stripePriceId": "price_s"}, "large": {"price": 35, "stripePriceId": "price_l"}}}`,
			wantOK:    true,
			wantPrice: 35, wantID: "price_l", wantKey: "large",
			wantLabels: []string{"small", "large"},
		},
		{
			name:      "unknown defaultKey falls back to default",
			raw:       `{"defaultKey": "huge", "variants": {"small": {"price": 20}, "default": {"price": 28, "stripePriceId": "price_d"}}}`,
			wantOK:    true,
			wantPrice: 28, wantID: "price_d", wantKey: "default",
			wantLabels: []string{"small", "default"},
		},
		{
			name:      "first variant in source order",
			raw:       `{"variants": {"zeta": {"price": 5, "stripePriceId": "price_z", "label": "Zeta"}, "alpha": {"price": 6, "stripePriceId": "price_a"}}}`,
			wantOK:    true,
			wantPrice: 5, wantID: "price_z", wantKey: "zeta",
			wantLabels: []string{"Zeta", "alpha"},
		},
		{
			name:      "array shape",
			raw:       `[{"label": "No id"}, {"key": "print", "amount": "18", "priceId": "price_p"}, {"amount": 30, "priceId": "price_o"}]`,
			wantOK:    true,
			wantPrice: 18, wantID: "price_p", wantKey: "print",
			wantLabels: []string{"Option 2", "Option 3"},
		},
		{
			name:      "legacy flat",
			raw:       `{"amount": 12, "priceId": "price_12"}`,
			wantOK:    true,
			wantPrice: 12, wantID: "price_12",
		},
		{
			name:   "legacy with id only",
			raw:    `{"stripePriceId": "price_only"}`,
			wantOK: true,
			wantID: "price_only",
		},
		{
			name:   "legacy without price or id",
			raw:    `{"price": 0, "label": "free"}`,
			wantOK: false,
		},
		{
			name:      "json string payload",
			raw:       `"{\"price\": 28, \"stripePriceId\": \"price_abc\"}"`,
			wantOK:    true,
			wantPrice: 28, wantID: "price_abc",
		},
		{name: "malformed json string", raw: `"{\"price\": 28,"`, wantOK: false},
		{name: "plain string", raw: `"twenty dollars"`, wantOK: false},
		{name: "empty string", raw: `""`, wantOK: false},
		{name: "number", raw: `28`, wantOK: false},
		{name: "empty variants", raw: `{"variants": {}}`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := ParsePricing(json.RawMessage(tt.raw))
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				assert.Nil(t, p)
				return
			}

			assert.Equal(t, tt.wantPrice, p.Price)
			assert.Equal(t, tt.wantPrice > 0, p.HasPrice)
			assert.Equal(t, tt.wantID, p.StripePriceID)
			assert.Equal(t, tt.wantKey, p.DefaultKey)

			var labels []string
			for _, v := range p.Variants {
				labels = append(labels, v.Label)
			}
			assert.Equal(t, tt.wantLabels, labels)
		})
	}
}

func TestParsePricing_ImageIndex(t *testing.T) {
	p, ok := ParsePricing(json.RawMessage(`{"variants": {
		"a": {"price": 1, "imageIndex": 2},
		"b": {"price": 1, "imageIndex": "1"},
		"c": {"price": 1, "imageIndex": -1},
		"d": {"price": 1, "imageIndex": 1.5}
	}}`))
	require.True(t, ok)
	require.Len(t, p.Variants, 4)

	require.NotNil(t, p.Variants[0].ImageIndex)
	assert.Equal(t, 2, *p.Variants[0].ImageIndex)
	require.NotNil(t, p.Variants[1].ImageIndex)
	assert.Equal(t, 1, *p.Variants[1].ImageIndex)
	assert.Nil(t, p.Variants[2].ImageIndex)
	assert.Nil(t, p.Variants[3].ImageIndex)
}

func TestParsePricing_VariantWithoutPrice(t *testing.T) {
	p, ok := ParsePricing(json.RawMessage(`{"variants": {"default": {"stripePriceId": "price_x"}}}`))
	require.True(t, ok)
	assert.False(t, p.HasPrice)
	assert.Equal(t, "price_x", p.StripePriceID)
}
