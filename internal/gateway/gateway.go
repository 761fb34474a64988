package gateway

import (
	"context"
	"fmt"

	"github.com/nordkart/checkout-svc/internal/service/models/lineitem"
)

// ErrorKind is the closed set of failure classes a payment gateway call can
// produce. The HTTP transport maps each kind to a response status; anything
// outside the set is treated as internal.
type ErrorKind string

const (
	KindCardDeclined   ErrorKind = "card_declined"
	KindRateLimited    ErrorKind = "rate_limited"
	KindInvalidRequest ErrorKind = "invalid_request"
	KindInternal       ErrorKind = "internal"
	KindConnection     ErrorKind = "connection"
	KindAuthentication ErrorKind = "authentication"
)

// Error is a typed gateway failure. It wraps the provider error for
// server-side logging; callers discriminate on Kind only.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway error (%s): %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps a provider error with a kind.
func NewError(kind ErrorKind, err error) *Error {
	return &Error{
		Kind: kind,
		Err:  err,
	}
}

// Session is the opaque handle of a hosted payment flow, passed through to
// the storefront and persisted alongside the order.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateSessionInput carries everything the gateway needs to open a hosted
// checkout flow for a repriced cart.
type CreateSessionInput struct {
	SuccessURL          string
	CancelURL           string
	LineItems           []lineitem.LineItem
	ShippingCountries   []string
	PaymentMethodTypes  []string
	Locale              string
	AllowPromotionCodes bool
	IdempotencyKey      string
}

// PaymentGateway creates hosted checkout sessions. Implementations return
// *Error for provider failures so the transport can map them to statuses.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, input CreateSessionInput) (*Session, error)
}
