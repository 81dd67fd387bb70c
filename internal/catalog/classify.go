package catalog

import "github.com/thisishowislab/slabcity-studio/internal/contentful"

// Rule maps a set of signal fields to a kind. An entry matches when any
// signal field holds a truthy value.
type Rule struct {
	Kind    Kind
	Signals []string
}

// ClassificationOrder is checked top to bottom and the first match wins, so
// an entry carrying both product and tour fields is a product. Entries that
// match nothing fall back to portfolio items.
var ClassificationOrder = []Rule{
	{Kind: KindProduct, Signals: []string{"productName", "productDescription", "productImage", "productImages"}},
	{Kind: KindTour, Signals: []string{"tourName", "tourDescription", "tourImage"}},
	{Kind: KindDonationTier, Signals: []string{"tierName", "tierDescription"}},
}

// portfolioSignals qualify an otherwise unclassified entry as a portfolio item.
var portfolioSignals = []string{"title", "name"}

// Classify returns the kind of an entry. hasImage reports whether image
// resolution produced at least one image. The second result is false when
// the entry should be dropped.
func Classify(f contentful.Fields, hasImage bool) (Kind, bool) {
	for _, rule := range ClassificationOrder {
		if f.Has(rule.Signals...) {
			return rule.Kind, true
		}
	}
	if hasImage || f.Has(portfolioSignals...) {
		return KindPortfolioItem, true
	}
	return "", false
}
