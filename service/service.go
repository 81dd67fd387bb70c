package service

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/thisishowislab/slabcity-studio/internal/checkout"
	"github.com/thisishowislab/slabcity-studio/internal/contentful"
	"github.com/thisishowislab/slabcity-studio/internal/handlers"
	"github.com/thisishowislab/slabcity-studio/internal/stripe"
	"github.com/thisishowislab/slabcity-studio/storage"
)

const healthTimeout = 2 * time.Second

type Service struct {
	storage         *storage.Storage
	config          *Config
	catalogHandler  *handlers.CatalogHandler
	checkoutHandler *handlers.CheckoutHandler
	paymentHandler  *handlers.PaymentHandler
}

func New(storage *storage.Storage, config *Config) *Service {
	content := contentful.NewClient(contentful.Config{
		SpaceID:     config.Contentful.SpaceID,
		AccessToken: config.Contentful.AccessToken,
		Environment: config.Contentful.Environment,
		Host:        config.Contentful.Host,
		Timeout:     config.Contentful.Timeout,
	})

	return newService(storage, config, content, stripe.NewStripeService(config.Stripe.SecretKey))
}

func newService(storage *storage.Storage, config *Config, content handlers.SnapshotSource, provider checkout.Provider) *Service {
	builder := checkout.NewBuilder(provider, checkout.Config{
		BaseURL:          config.BaseURL,
		AllowedCountries: config.Checkout.AllowedCountries,
	})

	return &Service{
		storage:         storage,
		config:          config,
		catalogHandler:  handlers.NewCatalogHandler(content, config.Catalog.Revalidate),
		checkoutHandler: handlers.NewCheckoutHandler(builder, storage.Queries),
		paymentHandler:  handlers.NewPaymentHandler(provider, storage.Queries, config.Stripe.WebhookSecret),
	}
}

func (s *Service) RegisterRoutes(e *echo.Echo) {
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	e.GET("/health", s.handleHealth)

	api := e.Group("/api")

	// Catalog
	api.GET("/catalog", s.catalogHandler.HandleCatalog)
	api.GET("/products/:slug", s.catalogHandler.HandleProduct)
	api.GET("/marketplace", s.catalogHandler.HandleMarketplace)

	// Checkout
	api.POST("/checkout", s.checkoutHandler.HandleCreateSession)
	api.GET("/checkout/sessions/:id", s.checkoutHandler.HandleGetSession)

	// Stripe
	api.GET("/stripe-test", s.paymentHandler.HandleStripeTest)
	api.POST("/stripe/webhook", s.paymentHandler.HandleWebhook)
}

func (s *Service) handleHealth(c echo.Context) error {
	health := "healthy"
	database := "connected"
	status := http.StatusOK

	if db := s.storage.DB(); db != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			health = "unhealthy"
			database = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	return c.JSON(status, map[string]any{
		"status":      health,
		"environment": s.config.Environment,
		"database":    database,
	})
}
