package checkout

import (
	"errors"
	"net/http"

	"github.com/stripe/stripe-go/v80"
)

const maxMessageLength = 600

// ErrNotConfigured means the payment provider has no secret key. No call is
// attempted.
var ErrNotConfigured = errors.New("missing STRIPE_SECRET_KEY")

// ValidationError is a problem with the caller's request. No provider call
// has been made when it is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ProviderError wraps a rejection from the payment provider. Message is the
// provider's own message, bounded in length.
type ProviderError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// newProviderError classifies a provider failure. An unknown price id is the
// caller's mistake and maps to 400; everything else is an upstream failure.
func newProviderError(err error) *ProviderError {
	pe := &ProviderError{
		StatusCode: http.StatusInternalServerError,
		Message:    err.Error(),
		Err:        err,
	}

	var se *stripe.Error
	if errors.As(err, &se) {
		if se.Msg != "" {
			pe.Message = se.Msg
		}
		if se.Code == stripe.ErrorCodeResourceMissing {
			pe.StatusCode = http.StatusBadRequest
		}
	}

	if r := []rune(pe.Message); len(r) > maxMessageLength {
		pe.Message = string(r[:maxMessageLength])
	}
	return pe
}
