package iproductrepo

import (
	"context"
	"errors"

	"github.com/nordkart/checkout-svc/internal/service/models/product"
)

// ErrNotFound is returned when no catalog record matches the identifier.
var ErrNotFound = errors.New("product not found")

// IProductRepository is an interface for the product catalog lookup.
type IProductRepository interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
}
