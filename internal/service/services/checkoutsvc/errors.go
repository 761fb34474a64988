package checkoutsvc

import "errors"

var (
	// ErrEmptyCart rejects zero-item checkouts before any catalog or
	// gateway call.
	ErrEmptyCart = errors.New("cart is empty, nothing to check out")

	// ErrInvalidQuantity rejects cart lines with a non-positive quantity.
	ErrInvalidQuantity = errors.New("cart item quantity must be positive")
)
