package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/thisishowislab/slabcity-studio/internal/contentful"
)

// pricingFields hold the per-entry pricing payload, either as a JSON object
// or as a string containing one.
var pricingFields = []string{"variantUx", "variantUX", "pricing"}

// DefaultVariantKey is selected when the payload names no default.
const DefaultVariantKey = "default"

// Pricing is a parsed pricing payload with its selected variant resolved.
type Pricing struct {
	Variants   []Variant
	DefaultKey string

	// Price is set only when positive.
	Price         float64
	HasPrice      bool
	StripePriceID string
}

// ParsePricing reads a pricing payload in any of the shapes authors use:
//
//	{"defaultKey": "a4", "variants": {"a4": {"price": 28, "stripePriceId": "price_..."}}}
//	[{"key": "small", "label": "Small", "amount": 28, "priceId": "price_..."}]
//	{"price": 28, "stripePriceId": "price_..."}
//
// The payload may also be a JSON string holding any of these. Anything that
// does not parse, or a flat payload with neither a positive price nor a price
// id, reports false.
func ParsePricing(raw json.RawMessage) (*Pricing, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, false
		}
		raw = bytes.TrimSpace([]byte(inner))
		if len(raw) == 0 || !json.Valid(raw) {
			return nil, false
		}
	}

	switch raw[0] {
	case '[':
		return parseVariantList(raw)
	case '{':
		var f contentful.Fields
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, false
		}
		if variants, ok := f.Raw("variants"); ok {
			return parseVariantMap(variants, f.StringOr("", "defaultKey"))
		}
		return parseFlat(f)
	}
	return nil, false
}

func parseVariantMap(raw json.RawMessage, defaultKey string) (*Pricing, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		return parseVariantList(raw)
	}

	keys, values, err := orderedObject(raw)
	if err != nil || len(keys) == 0 {
		return nil, false
	}

	p := &Pricing{}
	for _, key := range keys {
		var f contentful.Fields
		if err := json.Unmarshal(values[key], &f); err != nil {
			continue
		}
		p.Variants = append(p.Variants, variantFrom(f, key, key))
	}
	if len(p.Variants) == 0 {
		return nil, false
	}

	p.selectDefault(defaultKey)
	return p, true
}

func parseVariantList(raw json.RawMessage) (*Pricing, bool) {
	var list []contentful.Fields
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false
	}

	p := &Pricing{}
	for i, f := range list {
		key := f.StringOr(strconv.Itoa(i), "key", "id", "sku")
		v := variantFrom(f, key, fmt.Sprintf("Option %d", i+1))
		if v.StripePriceID == "" && v.Price <= 0 {
			continue
		}
		p.Variants = append(p.Variants, v)
	}
	if len(p.Variants) == 0 {
		return nil, false
	}

	p.selectDefault("")
	return p, true
}

func parseFlat(f contentful.Fields) (*Pricing, bool) {
	p := &Pricing{}
	if price, ok := f.Number("price", "amount"); ok && price > 0 {
		p.Price = price
		p.HasPrice = true
	}
	p.StripePriceID = f.StringOr("", "stripePriceId", "priceId")

	if !p.HasPrice && p.StripePriceID == "" {
		return nil, false
	}
	return p, true
}

// selectDefault picks the requested key, then "default", then the first
// variant in source order.
func (p *Pricing) selectDefault(requested string) {
	chosen := -1
	for _, want := range []string{requested, DefaultVariantKey} {
		if want == "" {
			continue
		}
		for i, v := range p.Variants {
			if v.Key == want {
				chosen = i
				break
			}
		}
		if chosen >= 0 {
			break
		}
	}
	if chosen < 0 {
		chosen = 0
	}

	v := p.Variants[chosen]
	p.DefaultKey = v.Key
	p.StripePriceID = v.StripePriceID
	if v.Price > 0 {
		p.Price = v.Price
		p.HasPrice = true
	}
}

func variantFrom(f contentful.Fields, key, fallbackLabel string) Variant {
	v := Variant{
		Key:           key,
		Label:         f.StringOr(fallbackLabel, "label", "name"),
		StripePriceID: f.StringOr("", "stripePriceId", "priceId"),
	}
	if price, ok := f.Number("price", "amount"); ok && price > 0 {
		v.Price = price
	}
	if idx, ok := f.Number("imageIndex"); ok && idx >= 0 && idx == math.Trunc(idx) {
		i := int(idx)
		v.ImageIndex = &i
	}
	return v
}

// orderedObject decodes a JSON object keeping the order its keys appear in.
func orderedObject(raw json.RawMessage) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	values := map[string]json.RawMessage{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, nil, err
		}
		if _, dup := values[key]; !dup {
			keys = append(keys, key)
		}
		values[key] = value
	}
	return keys, values, nil
}
