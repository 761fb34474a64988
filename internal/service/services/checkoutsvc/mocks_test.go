package checkoutsvc

import (
	"context"
	"fmt"
	"sync"

	"github.com/nordkart/checkout-svc/internal/dal/interfaces/iproductrepo"
	"github.com/nordkart/checkout-svc/internal/gateway"
	"github.com/nordkart/checkout-svc/internal/service/models/order"
	"github.com/nordkart/checkout-svc/internal/service/models/product"
)

// MockProductRepository implements iproductrepo.IProductRepository for
// testing. Lookups run concurrently, so the call counter is guarded.
type MockProductRepository struct {
	mu       sync.Mutex
	Products map[string]*product.Product
	Err      error
	Calls    int
}

func (m *MockProductRepository) GetByID(_ context.Context, id string) (*product.Product, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, iproductrepo.ErrNotFound)
	}
	return p, nil
}

// MockPaymentGateway implements gateway.PaymentGateway for testing. It
// captures the input of every call.
type MockPaymentGateway struct {
	Session *gateway.Session
	Err     error
	Inputs  []gateway.CreateSessionInput
}

func (m *MockPaymentGateway) CreateCheckoutSession(
	_ context.Context,
	input gateway.CreateSessionInput,
) (*gateway.Session, error) {
	m.Inputs = append(m.Inputs, input)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Session, nil
}

// MockOrderStore implements iorderrepo.IOrderStore for testing.
type MockOrderStore struct {
	Err     error
	Created []order.Order
}

func (m *MockOrderStore) Create(_ context.Context, o order.Order) (*order.Order, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	o.ID = int64(len(m.Created) + 1)
	m.Created = append(m.Created, o)
	return &o, nil
}

// MockOrderRepository implements iorderrepo.IOrderRepository for testing.
type MockOrderRepository struct {
	Orders []order.Order
	Err    error
	Filter *order.QueryOrdersModel
}

func (m *MockOrderRepository) Insert(_ context.Context, o order.Order) (*order.Order, error) {
	return &o, m.Err
}

func (m *MockOrderRepository) Query(
	_ context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	m.Filter = filter
	return m.Orders, m.Err
}
