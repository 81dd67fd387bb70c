package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/thisishowislab/slabcity-studio/internal/catalog"
	"github.com/thisishowislab/slabcity-studio/internal/contentful"
)

const relatedProductsLimit = 4

// SnapshotSource is where the catalog reads its content from.
type SnapshotSource interface {
	FetchSnapshot(ctx context.Context) (*contentful.Snapshot, error)
}

type CatalogHandler struct {
	source     SnapshotSource
	revalidate time.Duration
}

func NewCatalogHandler(source SnapshotSource, revalidate time.Duration) *CatalogHandler {
	return &CatalogHandler{
		source:     source,
		revalidate: revalidate,
	}
}

type ProductResponse struct {
	Product *catalog.Item  `json:"product"`
	Related []catalog.Item `json:"related"`
}

type MarketplaceResponse struct {
	Products []catalog.Item `json:"products"`
	Facets   catalog.Facets `json:"facets"`
	Filter   FilterEcho     `json:"filter"`
}

// FilterEcho repeats the applied filter so the storefront can restore its
// controls.
type FilterEcho struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Attribute   string `json:"attribute"`
	Query       string `json:"q"`
}

// HandleCatalog serves the whole normalized catalog.
func (h *CatalogHandler) HandleCatalog(c echo.Context) error {
	cat, err := h.load(c)
	if err != nil {
		return h.fetchError(c, err)
	}

	h.setCacheHeaders(c)
	return c.JSON(http.StatusOK, cat)
}

// HandleProduct serves one product and a few related ones. An unknown slug
// is answered with a null product, not a 404.
func (h *CatalogHandler) HandleProduct(c echo.Context) error {
	cat, err := h.load(c)
	if err != nil {
		return h.fetchError(c, err)
	}

	resp := ProductResponse{Related: []catalog.Item{}}
	if product, ok := cat.ProductBySlug(c.Param("slug")); ok {
		resp.Product = product
		resp.Related = cat.Related(product, relatedProductsLimit)
	}

	h.setCacheHeaders(c)
	return c.JSON(http.StatusOK, resp)
}

// HandleMarketplace filters the product list by category, subcategory,
// attribute and free text.
func (h *CatalogHandler) HandleMarketplace(c echo.Context) error {
	cat, err := h.load(c)
	if err != nil {
		return h.fetchError(c, err)
	}

	echoed := FilterEcho{
		Category:    c.QueryParam("category"),
		Subcategory: c.QueryParam("subcategory"),
		Attribute:   c.QueryParam("attribute"),
		Query:       c.QueryParam("q"),
	}
	products := cat.FilterProducts(catalog.Filter{
		Category:    echoed.Category,
		Subcategory: echoed.Subcategory,
		Attribute:   echoed.Attribute,
		Search:      echoed.Query,
	})

	h.setCacheHeaders(c)
	return c.JSON(http.StatusOK, MarketplaceResponse{
		Products: products,
		Facets:   cat.Facets(echoed.Category),
		Filter:   echoed,
	})
}

func (h *CatalogHandler) load(c echo.Context) (*catalog.Catalog, error) {
	snapshot, err := h.source.FetchSnapshot(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return catalog.Normalize(snapshot), nil
}

func (h *CatalogHandler) setCacheHeaders(c echo.Context) {
	if h.revalidate <= 0 {
		c.Response().Header().Set("Cache-Control", "no-store")
		return
	}
	seconds := int(h.revalidate.Seconds())
	c.Response().Header().Set("Cache-Control",
		fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d", seconds, seconds))
}

func (h *CatalogHandler) fetchError(c echo.Context, err error) error {
	var cfgErr *contentful.ConfigError
	if errors.As(err, &cfgErr) {
		slog.Error("catalog unavailable", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: cfgErr.Error()})
	}

	var upErr *contentful.UpstreamError
	if errors.As(err, &upErr) {
		slog.Error("catalog fetch failed",
			"error", err,
			"status", upErr.StatusCode,
			"details", upErr.Details)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   upErr.Error(),
			Details: upErr.Details,
		})
	}

	slog.Error("catalog failed", "error", err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Catalog error"})
}
