package catalog

import (
	"log/slog"
	"strings"

	"github.com/thisishowislab/slabcity-studio/internal/contentful"
)

// routingKeyFields identify an entry across the space. A pricing payload on
// one entry applies to every entry sharing its key.
var routingKeyFields = []string{
	"slug", "productSlug", "productKey", "key",
	"productName", "tourName", "tierName", "name",
}

var (
	slugFields          = []string{"slug", "productSlug"}
	categoryFields      = []string{"categories", "category", "productCategory", "productCategories"}
	subcategoryFields   = []string{"subcategory", "subCategory", "productSubcategory"}
	attributeFields     = []string{"attributes", "productAttributes"}
	tagFields           = []string{"tags", "productTags", "keywords"}
	shippableFields     = []string{"isShippable", "shippable", "requiresShipping"}
	communityFlagFields = []string{"communityEligible", "communitySupported", "communityOption", "allowCommunity", "barterAvailable"}
	communityNoteFields = []string{"communityNote", "communityNotes", "communityDetails", "barterNote"}
)

// kindSpec carries the per-kind field names and defaults.
type kindSpec struct {
	nameFields        []string
	descriptionFields []string
	placeholder       string
	priceFields       []string
	priceIDFields     []string
	defaultPrice      float64
	shippable         bool
}

var kindSpecs = map[Kind]kindSpec{
	KindProduct: {
		nameFields:        []string{"productName", "name"},
		descriptionFields: []string{"productDescription", "description"},
		placeholder:       "Untitled Product",
		priceFields:       []string{"price", "productPrice"},
		priceIDFields:     []string{"stripePriceId", "priceId"},
		defaultPrice:      DefaultProductPrice,
		shippable:         true,
	},
	KindTour: {
		nameFields:        []string{"tourName", "name"},
		descriptionFields: []string{"tourDescription", "description"},
		placeholder:       "Untitled Tour",
		priceFields:       []string{"tourPrice", "price"},
		priceIDFields:     []string{"tourStripePriceId", "stripePriceId", "priceId"},
		defaultPrice:      DefaultTourPrice,
	},
	KindDonationTier: {
		nameFields:        []string{"tierName", "name"},
		descriptionFields: []string{"tierDescription", "description"},
		placeholder:       "Support",
		priceFields:       []string{"tierPrice", "amount", "price"},
		priceIDFields:     []string{"tierStripePriceId", "stripePriceId", "priceId"},
		defaultPrice:      DefaultTierPrice,
	},
	KindPortfolioItem: {
		nameFields:        []string{"title", "name"},
		descriptionFields: []string{"description"},
		placeholder:       "Untitled",
	},
}

// Normalize turns a content snapshot into the storefront catalog. It is a
// pure function of the snapshot; entries that classify as nothing are
// dropped, everything else lands in exactly one list in source order.
func Normalize(snapshot *contentful.Snapshot) *Catalog {
	out := newCatalog()
	if snapshot == nil {
		return out
	}

	shared := pricingByKey(snapshot.Entries)

	dropped := 0
	for _, entry := range snapshot.Entries {
		item, ok := normalizeEntry(entry, snapshot, shared)
		if !ok {
			dropped++
			continue
		}
		out.add(item)
	}

	slog.Debug("catalog normalized",
		"entries", len(snapshot.Entries),
		"products", len(out.Products),
		"tours", len(out.Tours),
		"donation_tiers", len(out.DonationTiers),
		"portfolio_items", len(out.PortfolioItems),
		"dropped", dropped)

	return out
}

func normalizeEntry(entry contentful.Entry, snapshot *contentful.Snapshot, shared map[string]*Pricing) (Item, bool) {
	f := entry.Fields
	images := ResolveImages(f, snapshot)

	kind, ok := Classify(f, len(images) > 0)
	if !ok {
		return Item{}, false
	}
	spec := kindSpecs[kind]

	item := Item{
		ID:          entry.Sys.ID,
		Kind:        kind,
		Description: f.StringOr("", spec.descriptionFields...),
		Images:      images,
		IsShippable: f.BoolOr(spec.shippable, shippableFields...),
	}
	if len(images) > 0 {
		item.Image = images[0].Original
	}

	if kind == KindPortfolioItem {
		item.Title = f.StringOr(spec.placeholder, spec.nameFields...)
		item.Tech = strings.Join(f.Strings("technologies", "tech"), ", ")
		return item, true
	}

	item.Name = f.StringOr(spec.placeholder, spec.nameFields...)
	if kind != KindDonationTier {
		item.Slug = f.StringOr("", slugFields...)
	}

	pricing := entryPricing(f, shared)
	item.Price, item.StripePriceID = resolvePrice(f, spec, pricing)
	if pricing != nil && len(pricing.Variants) > 0 {
		item.Variants = pricing.Variants
		item.DefaultVariant = pricing.DefaultKey
	}

	item.CommunityEligible = f.Bool(communityFlagFields...)
	item.CommunityNote = f.StringOr("", communityNoteFields...)

	if kind == KindProduct {
		item.Categories = f.Strings(categoryFields...)
		item.Subcategory = f.StringOr("", subcategoryFields...)
		item.Attributes = f.Strings(attributeFields...)
		item.Tags = f.Strings(tagFields...)
	}

	return item, true
}

// resolvePrice applies the fallback chain: selected variant, then the
// entry's own price fields, then the kind default. The price id follows the
// same chain and ends at nil.
func resolvePrice(f contentful.Fields, spec kindSpec, pricing *Pricing) (float64, *string) {
	price := spec.defaultPrice
	switch {
	case pricing != nil && pricing.HasPrice:
		price = pricing.Price
	default:
		if n, ok := f.Number(spec.priceFields...); ok && n > 0 {
			price = n
		}
	}

	var id *string
	if pricing != nil && pricing.StripePriceID != "" {
		resolved := pricing.StripePriceID
		id = &resolved
	} else if raw, ok := f.String(spec.priceIDFields...); ok {
		id = &raw
	}
	return price, id
}

func entryPricing(f contentful.Fields, shared map[string]*Pricing) *Pricing {
	if raw, ok := f.Raw(pricingFields...); ok {
		if p, ok := ParsePricing(raw); ok {
			return p
		}
	}
	if key, ok := f.String(routingKeyFields...); ok {
		return shared[key]
	}
	return nil
}

// pricingByKey indexes every parseable pricing payload by routing key. A
// later entry with the same key replaces an earlier one.
func pricingByKey(entries []contentful.Entry) map[string]*Pricing {
	index := map[string]*Pricing{}
	for _, entry := range entries {
		key, ok := entry.Fields.String(routingKeyFields...)
		if !ok {
			continue
		}
		raw, ok := entry.Fields.Raw(pricingFields...)
		if !ok {
			continue
		}
		if p, ok := ParsePricing(raw); ok {
			index[key] = p
		}
	}
	return index
}

