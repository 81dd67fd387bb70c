package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	stripego "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
	"github.com/thisishowislab/slabcity-studio/storage/db"
)

// maxWebhookBytes matches the limit Stripe documents for event payloads.
const maxWebhookBytes = 65536

// ProviderStatus reports whether Stripe credentials are present.
type ProviderStatus interface {
	IsConfigured() bool
}

type PaymentHandler struct {
	provider      ProviderStatus
	queries       *db.Queries
	webhookSecret string
}

func NewPaymentHandler(provider ProviderStatus, queries *db.Queries, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{
		provider:      provider,
		queries:       queries,
		webhookSecret: webhookSecret,
	}
}

type StripeStatusResponse struct {
	OK     bool `json:"ok"`
	HasKey bool `json:"hasKey"`
}

// HandleStripeTest is a deployment probe. It never calls Stripe.
func (h *PaymentHandler) HandleStripeTest(c echo.Context) error {
	return c.JSON(http.StatusOK, StripeStatusResponse{
		OK:     true,
		HasKey: h.provider.IsConfigured(),
	})
}

func (h *PaymentHandler) HandleWebhook(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBytes))
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Error reading request body"})
	}

	// Without a secret the event is parsed unverified (local development).
	var event stripego.Event
	if h.webhookSecret != "" {
		event, err = webhook.ConstructEvent(payload, c.Request().Header.Get("Stripe-Signature"), h.webhookSecret)
		if err != nil {
			slog.Error("webhook signature verification failed", "error", err)
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid signature"})
		}
	} else if err := json.Unmarshal(payload, &event); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Error parsing webhook JSON"})
	}

	switch event.Type {
	case stripego.EventTypeCheckoutSessionCompleted,
		stripego.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		return h.updateSession(c, event, "completed")
	case stripego.EventTypeCheckoutSessionAsyncPaymentFailed:
		return h.updateSession(c, event, "failed")
	case stripego.EventTypeCheckoutSessionExpired:
		return h.updateSession(c, event, "expired")
	default:
		slog.Debug("unhandled webhook event type", "type", event.Type)
	}

	return c.NoContent(http.StatusOK)
}

func (h *PaymentHandler) updateSession(c echo.Context, event stripego.Event, status string) error {
	if event.Data == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Error parsing webhook JSON"})
	}

	var session stripego.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		slog.Error("error parsing checkout session", "error", err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Error parsing webhook JSON"})
	}

	// A completed session can still be waiting on a delayed payment method.
	if event.Type == stripego.EventTypeCheckoutSessionCompleted && !settled(session.PaymentStatus) {
		status = "pending"
	}

	slog.Info("checkout session event",
		"type", event.Type,
		"session_id", session.ID,
		"reference", session.ClientReferenceID,
		"status", status,
		"amount_total", session.AmountTotal)

	// Ledger problems are logged; the event is still acknowledged.
	if err := h.markSession(c.Request().Context(), &session, status); err != nil {
		slog.Error("failed to update checkout session", "error", err, "session_id", session.ID)
	}

	return c.NoContent(http.StatusOK)
}

func (h *PaymentHandler) markSession(ctx context.Context, session *stripego.CheckoutSession, status string) error {
	if h.queries == nil {
		return nil
	}

	params := db.UpdateCheckoutSessionStatusParams{
		Status:          status,
		StripeSessionID: session.ID,
	}
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		params.CustomerEmail = sql.NullString{String: session.CustomerDetails.Email, Valid: true}
	}
	if session.AmountTotal > 0 {
		params.AmountTotalCents = sql.NullInt64{Int64: session.AmountTotal, Valid: true}
	}

	n, err := h.queries.UpdateCheckoutSessionStatus(ctx, params)
	if err != nil {
		return err
	}
	if n == 0 {
		slog.Warn("checkout session unknown or already final", "session_id", session.ID, "status", status)
	}
	return nil
}

func settled(status stripego.CheckoutSessionPaymentStatus) bool {
	return status == stripego.CheckoutSessionPaymentStatusPaid ||
		status == stripego.CheckoutSessionPaymentStatusNoPaymentRequired
}
