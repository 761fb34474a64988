package iorderrepo

import (
	"context"

	"github.com/nordkart/checkout-svc/internal/service/models/order"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (*order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}

// IOrderStore persists an accepted checkout atomically: the order row, its
// product lines, and the order-created outbox event in one transaction.
type IOrderStore interface {
	Create(ctx context.Context, o order.Order) (*order.Order, error)
}
