package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thisishowislab/slabcity-studio/internal/catalog"
	"github.com/thisishowislab/slabcity-studio/internal/contentful"
)

func testEntry(t *testing.T, id string, values map[string]any) contentful.Entry {
	t.Helper()

	fields := contentful.Fields{}
	for key, value := range values {
		raw, err := json.Marshal(value)
		require.NoError(t, err)
		fields[key] = raw
	}
	return contentful.Entry{Sys: contentful.Sys{ID: id, Type: "Entry"}, Fields: fields}
}

func testSnapshot(t *testing.T) *contentful.Snapshot {
	t.Helper()

	return &contentful.Snapshot{
		Entries: []contentful.Entry{
			testEntry(t, "p1", map[string]any{
				"productName": "Tarot Deck",
				"slug":        "tarot-deck",
				"categories":  []string{"Decks"},
				"subcategory": "Tarot",
				"productImage": map[string]any{
					"sys": map[string]any{"type": "Link", "linkType": "Asset", "id": "a1"},
				},
				"variantUx": map[string]any{
					"defaultKey": "standard",
					"variants": map[string]any{
						"standard": map[string]any{"price": 35, "stripePriceId": "price_std"},
					},
				},
			}),
			testEntry(t, "p2", map[string]any{
				"productName": "Oracle Deck",
				"slug":        "oracle-deck",
				"categories":  "Decks",
				"subcategory": "Oracle",
				"tags":        "cards, spirit",
			}),
			testEntry(t, "p3", map[string]any{
				"productName": "Scrap Sculpture",
				"slug":        "scrap-sculpture",
				"categories":  []string{"Sculpture"},
				"attributes":  []string{"Large"},
			}),
			testEntry(t, "t1", map[string]any{"tourName": "Desert Walk", "slug": "desert-walk"}),
			testEntry(t, "d1", map[string]any{"tierName": "Patron"}),
			testEntry(t, "x1", map[string]any{"title": "Mural"}),
		},
		Assets: map[string]contentful.Asset{
			"a1": {
				Sys:    contentful.Sys{ID: "a1", Type: "Asset"},
				Fields: contentful.AssetFields{Title: "deck", File: &contentful.AssetFile{URL: "//images.ctfassets.net/deck.jpg"}},
			},
		},
	}
}

func decodeCatalog(t *testing.T, body []byte) catalog.Catalog {
	t.Helper()

	var got catalog.Catalog
	require.NoError(t, json.Unmarshal(body, &got))
	return got
}

func TestHandleCatalog(t *testing.T) {
	source := &StaticSnapshot{Snapshot: testSnapshot(t)}
	h := NewCatalogHandler(source, time.Minute)

	c, rec := NewTestContext(http.MethodGet, "/api/catalog", nil)
	require.NoError(t, h.HandleCatalog(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, s-maxage=60, stale-while-revalidate=60", rec.Header().Get("Cache-Control"))
	assert.Equal(t, 1, source.Calls)

	got := decodeCatalog(t, rec.Body.Bytes())
	require.Len(t, got.Products, 3)
	assert.Len(t, got.Tours, 1)
	assert.Len(t, got.DonationTiers, 1)
	assert.Len(t, got.PortfolioItems, 1)

	tarot := got.Products[0]
	assert.Equal(t, "Tarot Deck", tarot.Name)
	assert.Equal(t, float64(35), tarot.Price)
	require.NotNil(t, tarot.StripePriceID)
	assert.Equal(t, "price_std", *tarot.StripePriceID)
	require.Len(t, tarot.Images, 1)
	assert.Equal(t, "https://images.ctfassets.net/deck.jpg", tarot.Images[0].Original)
}

func TestHandleCatalog_EmptySnapshotHasArrays(t *testing.T) {
	h := NewCatalogHandler(&StaticSnapshot{Snapshot: &contentful.Snapshot{}}, 0)

	c, rec := NewTestContext(http.MethodGet, "/api/catalog", nil)
	require.NoError(t, h.HandleCatalog(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"products":[],"tours":[],"donationTiers":[],"portfolioItems":[]}`, rec.Body.String())
}

func TestHandleCatalog_Errors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantError   string
		wantDetails string
	}{
		{
			name:      "missing credentials",
			err:       &contentful.ConfigError{Missing: []string{"CONTENTFUL_SPACE_ID", "CONTENTFUL_ACCESS_TOKEN"}},
			wantError: "Missing Contentful env vars: CONTENTFUL_SPACE_ID / CONTENTFUL_ACCESS_TOKEN",
		},
		{
			name:        "upstream status",
			err:         &contentful.UpstreamError{StatusCode: 401, Details: `{"message":"bad token"}`},
			wantError:   "Contentful error 401",
			wantDetails: `{"message":"bad token"}`,
		},
		{
			name:      "unexpected",
			err:       errors.New("boom"),
			wantError: "Catalog error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCatalogHandler(&StaticSnapshot{Err: tt.err}, time.Minute)

			c, rec := NewTestContext(http.MethodGet, "/api/catalog", nil)
			require.NoError(t, h.HandleCatalog(c))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Empty(t, rec.Header().Get("Cache-Control"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, tt.wantDetails, body.Details)
		})
	}
}

func TestHandleProduct(t *testing.T) {
	h := NewCatalogHandler(&StaticSnapshot{Snapshot: testSnapshot(t)}, time.Minute)

	t.Run("known slug", func(t *testing.T) {
		c, rec := NewTestContext(http.MethodGet, "/api/products/:slug", nil)
		c.SetParamNames("slug")
		c.SetParamValues("tarot-deck")
		require.NoError(t, h.HandleProduct(c))

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp ProductResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Product)
		assert.Equal(t, "p1", resp.Product.ID)
		require.Len(t, resp.Related, 1)
		assert.Equal(t, "p2", resp.Related[0].ID)
	})

	t.Run("unknown slug", func(t *testing.T) {
		c, rec := NewTestContext(http.MethodGet, "/api/products/:slug", nil)
		c.SetParamNames("slug")
		c.SetParamValues("nope")
		require.NoError(t, h.HandleProduct(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"product":null,"related":[]}`, rec.Body.String())
	})
}

func TestHandleMarketplace(t *testing.T) {
	h := NewCatalogHandler(&StaticSnapshot{Snapshot: testSnapshot(t)}, time.Minute)

	tests := []struct {
		name      string
		query     string
		wantIDs   []string
		wantSubs  []string
		wantCats  []string
		wantAttrs []string
	}{
		{"no filter", "", []string{"p1", "p2", "p3"}, []string{}, []string{"Decks", "Sculpture"}, []string{"Large"}},
		{"category", "?category=Decks", []string{"p1", "p2"}, []string{"Tarot", "Oracle"}, []string{"Decks", "Sculpture"}, []string{"Large"}},
		{"subcategory", "?category=Decks&subcategory=Oracle", []string{"p2"}, []string{"Tarot", "Oracle"}, []string{"Decks", "Sculpture"}, []string{"Large"}},
		{"attribute", "?attribute=Large", []string{"p3"}, []string{}, []string{"Decks", "Sculpture"}, []string{"Large"}},
		{"search by tag", "?q=SPIRIT", []string{"p2"}, []string{}, []string{"Decks", "Sculpture"}, []string{"Large"}},
		{"no match", "?q=zzz", []string{}, []string{}, []string{"Decks", "Sculpture"}, []string{"Large"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := NewTestContext(http.MethodGet, "/api/marketplace"+tt.query, nil)
			require.NoError(t, h.HandleMarketplace(c))
			assert.Equal(t, http.StatusOK, rec.Code)

			var resp MarketplaceResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

			ids := []string{}
			for _, p := range resp.Products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantCats, resp.Facets.Categories)
			assert.Equal(t, tt.wantSubs, resp.Facets.Subcategories)
			assert.Equal(t, tt.wantAttrs, resp.Facets.Attributes)
		})
	}
}
