package catalog

// Kind is the catalog list an entry lands in.
type Kind string

const (
	KindProduct       Kind = "product"
	KindTour          Kind = "tour"
	KindDonationTier  Kind = "donationTier"
	KindPortfolioItem Kind = "portfolioItem"
)

// Default prices per kind, used when no pricing source resolves.
const (
	DefaultProductPrice = 0
	DefaultTourPrice    = 25
	DefaultTierPrice    = 10
)

// ImageSet is one asset rendered at the sizes the storefront asks for. All
// four URLs point at the same stored file.
type ImageSet struct {
	Original string `json:"original"`
	Grid     string `json:"grid"`
	Main     string `json:"main"`
	Thumb    string `json:"thumb"`
	Alt      string `json:"alt,omitempty"`
}

// Variant is one purchasable option of an item (size, edition, time slot).
type Variant struct {
	Key           string  `json:"key"`
	Label         string  `json:"label"`
	Price         float64 `json:"price"`
	StripePriceID string  `json:"stripePriceId,omitempty"`
	ImageIndex    *int    `json:"imageIndex,omitempty"`
}

// Item is a normalized catalog record. StripePriceID is nil when the item
// cannot be bought directly.
type Item struct {
	ID             string     `json:"id"`
	Kind           Kind       `json:"kind"`
	Slug           string     `json:"slug,omitempty"`
	Name           string     `json:"name,omitempty"`
	Title          string     `json:"title,omitempty"`
	Description    string     `json:"description"`
	Price          float64    `json:"price"`
	StripePriceID  *string    `json:"stripePriceId"`
	Image          string     `json:"image,omitempty"`
	Images         []ImageSet `json:"images"`
	Variants       []Variant  `json:"variants,omitempty"`
	DefaultVariant string     `json:"defaultVariant,omitempty"`

	Categories  []string `json:"categories,omitempty"`
	Subcategory string   `json:"subcategory,omitempty"`
	Attributes  []string `json:"attributes,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	IsShippable bool     `json:"isShippable"`
	Tech        string   `json:"tech,omitempty"`

	CommunityEligible bool   `json:"communityEligible"`
	CommunityNote     string `json:"communityNote,omitempty"`
}

// Catalog is the document served to the storefront. Lists are never nil so
// they encode as [] rather than null.
type Catalog struct {
	Products       []Item `json:"products"`
	Tours          []Item `json:"tours"`
	DonationTiers  []Item `json:"donationTiers"`
	PortfolioItems []Item `json:"portfolioItems"`
}

func newCatalog() *Catalog {
	return &Catalog{
		Products:       []Item{},
		Tours:          []Item{},
		DonationTiers:  []Item{},
		PortfolioItems: []Item{},
	}
}

func (c *Catalog) add(item Item) {
	switch item.Kind {
	case KindProduct:
		c.Products = append(c.Products, item)
	case KindTour:
		c.Tours = append(c.Tours, item)
	case KindDonationTier:
		c.DonationTiers = append(c.DonationTiers, item)
	case KindPortfolioItem:
		c.PortfolioItems = append(c.PortfolioItems, item)
	}
}

// Len is the total number of items across all lists.
func (c *Catalog) Len() int {
	return len(c.Products) + len(c.Tours) + len(c.DonationTiers) + len(c.PortfolioItems)
}
