package catalog

import (
	"slices"
	"strings"
)

// ProductBySlug returns the product routed at slug.
func (c *Catalog) ProductBySlug(slug string) (*Item, bool) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, false
	}
	for i := range c.Products {
		if c.Products[i].Slug == slug {
			return &c.Products[i], true
		}
	}
	return nil, false
}

// Related returns up to limit other products sharing a category with item,
// products in the same subcategory first.
func (c *Catalog) Related(item *Item, limit int) []Item {
	related := []Item{}
	if item == nil || len(item.Categories) == 0 || limit <= 0 {
		return related
	}

	var sameSub, sameCat []Item
	for _, p := range c.Products {
		if p.ID == item.ID || !sharesAny(p.Categories, item.Categories) {
			continue
		}
		if item.Subcategory != "" && p.Subcategory == item.Subcategory {
			sameSub = append(sameSub, p)
		} else {
			sameCat = append(sameCat, p)
		}
	}

	for _, p := range append(sameSub, sameCat...) {
		if len(related) == limit {
			break
		}
		related = append(related, p)
	}
	return related
}

// Filter narrows the product list. Empty fields match everything.
type Filter struct {
	Category    string
	Subcategory string
	Attribute   string
	Search      string
}

// FilterProducts applies f to the product list. Search is a case-insensitive
// substring match over name, description and tags.
func (c *Catalog) FilterProducts(f Filter) []Item {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := []Item{}
	for _, p := range c.Products {
		if f.Category != "" && !slices.Contains(p.Categories, f.Category) {
			continue
		}
		if f.Subcategory != "" && p.Subcategory != f.Subcategory {
			continue
		}
		if f.Attribute != "" && !slices.Contains(p.Attributes, f.Attribute) {
			continue
		}
		if search != "" && !strings.Contains(searchText(p), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Facets are the filter options offered to shoppers.
type Facets struct {
	Categories    []string `json:"categories"`
	Subcategories []string `json:"subcategories"`
	Attributes    []string `json:"attributes"`
}

// Facets lists every category and attribute in use. Subcategories are only
// listed once a category is chosen.
func (c *Catalog) Facets(category string) Facets {
	facets := Facets{
		Categories:    []string{},
		Subcategories: []string{},
		Attributes:    []string{},
	}
	for _, p := range c.Products {
		facets.Categories = appendUnique(facets.Categories, p.Categories...)
		facets.Attributes = appendUnique(facets.Attributes, p.Attributes...)
		if category != "" && p.Subcategory != "" && slices.Contains(p.Categories, category) {
			facets.Subcategories = appendUnique(facets.Subcategories, p.Subcategory)
		}
	}
	return facets
}

func searchText(p Item) string {
	return strings.ToLower(p.Name + " " + p.Description + " " + strings.Join(p.Tags, " "))
}

func sharesAny(a, b []string) bool {
	for _, s := range a {
		if slices.Contains(b, s) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(list, v) {
			list = append(list, v)
		}
	}
	return list
}
