package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"github.com/thisishowislab/slabcity-studio/internal/checkout"
	"github.com/thisishowislab/slabcity-studio/internal/contentful"
	"github.com/thisishowislab/slabcity-studio/storage/db"
)

const ledgerTimeout = 5 * time.Second

type CheckoutHandler struct {
	builder *checkout.Builder
	// queries is the checkout ledger. Nil disables recording.
	queries *db.Queries
}

func NewCheckoutHandler(builder *checkout.Builder, queries *db.Queries) *CheckoutHandler {
	return &CheckoutHandler{
		builder: builder,
		queries: queries,
	}
}

type CreateCheckoutRequest struct {
	PriceID string `json:"priceId"`
	Mode    string `json:"mode"`
	// Quantity is kept raw so "2" and 2 are both accepted. Null means unset.
	Quantity        json.RawMessage `json:"quantity"`
	RequireShipping bool            `json:"requireShipping"`
}

type CreateCheckoutResponse struct {
	URL  string        `json:"url"`
	Mode checkout.Mode `json:"mode"`
}

type CheckoutSessionResponse struct {
	ID               string    `json:"id"`
	StripeSessionID  string    `json:"stripeSessionId"`
	PriceID          string    `json:"priceId"`
	Quantity         int64     `json:"quantity"`
	Mode             string    `json:"mode"`
	RequestedMode    *string   `json:"requestedMode"`
	RequireShipping  bool      `json:"requireShipping"`
	Status           string    `json:"status"`
	CustomerEmail    *string   `json:"customerEmail"`
	AmountTotalCents *int64    `json:"amountTotalCents"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// HandleCreateSession starts a hosted Checkout session for one price.
func (h *CheckoutHandler) HandleCreateSession(c echo.Context) error {
	var req CreateCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
	}

	mode, err := checkout.ParseMode(req.Mode)
	if err != nil {
		return h.checkoutError(c, err)
	}

	var quantity float64
	if raw := bytes.TrimSpace(req.Quantity); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		n, ok := contentful.ParseNumber(req.Quantity)
		if !ok {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid quantity"})
		}
		quantity = n
	}

	reference := ulid.Make().String()
	session, err := h.builder.Create(c.Request().Context(), checkout.Request{
		PriceID:         req.PriceID,
		Quantity:        quantity,
		Mode:            mode,
		RequireShipping: req.RequireShipping,
		Reference:       reference,
	})
	if err != nil {
		return h.checkoutError(c, err)
	}

	h.record(c.Request().Context(), reference, req, session)

	return c.JSON(http.StatusOK, CreateCheckoutResponse{
		URL:  session.URL,
		Mode: session.Mode,
	})
}

// HandleGetSession reports the ledger entry for a Stripe session id, as
// used by the success page.
func (h *CheckoutHandler) HandleGetSession(c echo.Context) error {
	if h.queries == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Checkout session not found"})
	}

	row, err := h.queries.GetCheckoutSessionByStripeID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Checkout session not found"})
	}
	if err != nil {
		slog.Error("failed to load checkout session", "error", err, "session_id", c.Param("id"))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load checkout session"})
	}

	return c.JSON(http.StatusOK, checkoutSessionResponse(row))
}

// record appends the session to the ledger. Failures are logged, never
// returned.
func (h *CheckoutHandler) record(ctx context.Context, reference string, req CreateCheckoutRequest, session *checkout.Session) {
	if h.queries == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ledgerTimeout)
	defer cancel()

	err := h.queries.CreateCheckoutSession(ctx, db.CreateCheckoutSessionParams{
		ID:              reference,
		StripeSessionID: session.ID,
		PriceID:         req.PriceID,
		Quantity:        session.Quantity,
		RequestedMode:   sql.NullString{String: string(session.RequestedMode), Valid: session.RequestedMode != ""},
		Mode:            string(session.Mode),
		RequireShipping: req.RequireShipping,
	})
	if err != nil {
		slog.Error("failed to record checkout session",
			"error", err,
			"reference", reference,
			"session_id", session.ID)
	}
}

func (h *CheckoutHandler) checkoutError(c echo.Context, err error) error {
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Message})
	}

	if errors.Is(err, checkout.ErrNotConfigured) {
		slog.Error("checkout unavailable", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Missing STRIPE_SECRET_KEY"})
	}

	var perr *checkout.ProviderError
	if errors.As(err, &perr) {
		slog.Error("stripe rejected checkout", "error", perr.Err, "status", perr.StatusCode)
		return c.JSON(perr.StatusCode, ErrorResponse{Error: perr.Message})
	}

	slog.Error("checkout failed", "error", err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Checkout error"})
}

func checkoutSessionResponse(row db.CheckoutSession) CheckoutSessionResponse {
	resp := CheckoutSessionResponse{
		ID:              row.ID,
		StripeSessionID: row.StripeSessionID,
		PriceID:         row.PriceID,
		Quantity:        row.Quantity,
		Mode:            row.Mode,
		RequireShipping: row.RequireShipping,
		Status:          row.Status,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.RequestedMode.Valid {
		resp.RequestedMode = &row.RequestedMode.String
	}
	if row.CustomerEmail.Valid {
		resp.CustomerEmail = &row.CustomerEmail.String
	}
	if row.AmountTotalCents.Valid {
		resp.AmountTotalCents = &row.AmountTotalCents.Int64
	}
	return resp
}
