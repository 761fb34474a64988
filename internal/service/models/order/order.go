package order

import (
	"time"

	"github.com/nordkart/checkout-svc/internal/service/models/cart"
)

// Order records a cart for which the payment gateway accepted a checkout
// session. It is written once and never mutated by this service; payment
// completion is reconciled elsewhere.
type Order struct {
	ID               int64       `json:"id"`
	Products         []cart.Item `json:"products"`
	GatewaySessionID string      `json:"gatewaySessionId"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}
