package createcheckout

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/nordkart/checkout-svc/internal/dal/interfaces/iproductrepo"
	"github.com/nordkart/checkout-svc/internal/gateway"
	"github.com/nordkart/checkout-svc/internal/service/models/cart"
	"github.com/nordkart/checkout-svc/internal/service/models/product"
	"github.com/nordkart/checkout-svc/internal/service/services/checkoutsvc"
)

const cartRequiredMessage = "Cart is required and must be an array."

// service is an interface for the service layer.
type service interface {
	CreateCheckout(ctx context.Context, items []cart.Item) (*gateway.Session, error)
}

// createCheckoutRequest represents a create checkout request. Cart is a
// pointer so an absent field is distinguishable from an empty array. Unknown
// fields (a forged price, say) are ignored by decoding; prices only ever come
// from the catalog.
type createCheckoutRequest struct {
	Cart *[]cart.Item `json:"cart" validate:"required,dive"`
}

// Validate validates the create checkout request.
func (r *createCheckoutRequest) Validate() error {
	return validator.New().Struct(r)
}

// CreateCheckout handles the checkout request.
func CreateCheckout(w http.ResponseWriter, r *http.Request, service service) {
	var req createCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, cartRequiredMessage)
		slog.Error("Error decoding request body for checkout", "error", err)

		return
	}

	if req.Cart == nil {
		respondError(w, http.StatusBadRequest, cartRequiredMessage)
		slog.Error("Checkout request without cart")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "Cart items must have a productId and a positive quantity.")
		slog.Error("Error validating request body for checkout", "error", err)

		return
	}

	session, err := service.CreateCheckout(r.Context(), *req.Cart)
	if err != nil {
		status, message := statusForError(err)
		respondError(w, status, message)
		slog.Error("Error creating checkout", "error", err, "status", status)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(session); err != nil {
		slog.Error("Error sending response for checkout", "error", err)
	}
}

// statusForError maps service and gateway failures to a response status and
// a generic client-facing message. Raw internal error text never reaches the
// client; it is logged server-side only.
func statusForError(err error) (int, string) {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		switch gwErr.Kind {
		case gateway.KindCardDeclined:
			return http.StatusBadRequest, "Payment was declined."
		case gateway.KindRateLimited:
			return http.StatusTooManyRequests, "Too many requests, please try again shortly."
		case gateway.KindInvalidRequest:
			return http.StatusBadRequest, "Checkout request was rejected by the payment provider."
		case gateway.KindAuthentication:
			return http.StatusUnauthorized, "Payment provider is not configured correctly."
		case gateway.KindConnection:
			return http.StatusBadGateway, "Could not reach the payment provider."
		default:
			return http.StatusInternalServerError, "Payment provider error."
		}
	}

	switch {
	case errors.Is(err, checkoutsvc.ErrEmptyCart):
		return http.StatusBadRequest, "Cart is empty."
	case errors.Is(err, checkoutsvc.ErrInvalidQuantity):
		return http.StatusBadRequest, "Cart items must have a productId and a positive quantity."
	case errors.Is(err, iproductrepo.ErrNotFound):
		return http.StatusBadRequest, "One or more products in the cart do not exist."
	case errors.Is(err, product.ErrInvalidPrice):
		return http.StatusBadRequest, "One or more products in the cart cannot be purchased right now."
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		slog.Error("Error sending error response", "error", err)
	}
}
