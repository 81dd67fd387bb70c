package service

import (
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/thisishowislab/slabcity-studio/internal/checkout"
	"github.com/thisishowislab/slabcity-studio/internal/contentful"
	"github.com/thisishowislab/slabcity-studio/internal/handlers"
	"github.com/thisishowislab/slabcity-studio/storage"
)

// setupTestService creates a service backed by an in-memory database, a
// fixed content snapshot and a fake payment provider.
func setupTestService(t *testing.T, snapshot *contentful.Snapshot) (*Service, *checkout.FakeProvider) {
	t.Helper()

	store, cleanup, err := storage.NewTestStorage()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(cleanup)

	config := &Config{
		Environment: "test",
		Port:        "8080",
		BaseURL:     "https://studio.example",
	}
	config.Catalog.Revalidate = time.Minute
	config.Checkout.AllowedCountries = []string{"US", "CA"}

	if snapshot == nil {
		snapshot = &contentful.Snapshot{}
	}
	provider := checkout.NewFakeProvider()
	svc := newService(store, config, &handlers.StaticSnapshot{Snapshot: snapshot}, provider)

	return svc, provider
}

// setupTestEcho creates an Echo instance with routes registered
func setupTestEcho(t *testing.T, snapshot *contentful.Snapshot) (*echo.Echo, *checkout.FakeProvider) {
	t.Helper()

	e := echo.New()
	svc, provider := setupTestService(t, snapshot)
	svc.RegisterRoutes(e)

	return e, provider
}
