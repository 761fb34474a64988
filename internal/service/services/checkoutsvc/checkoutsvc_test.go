package checkoutsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/nordkart/checkout-svc/internal/dal/interfaces/iproductrepo"
	"github.com/nordkart/checkout-svc/internal/gateway"
	"github.com/nordkart/checkout-svc/internal/service/models/cart"
	"github.com/nordkart/checkout-svc/internal/service/models/currency"
	"github.com/nordkart/checkout-svc/internal/service/models/order"
	"github.com/nordkart/checkout-svc/internal/service/models/product"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(
	repo *MockProductRepository,
	gw *MockPaymentGateway,
	store *MockOrderStore,
) *CheckoutService {
	viper.Set("checkout.client_base_url", "https://shop.example.com")
	viper.Set("checkout.server_base_url", "https://api.example.com")
	viper.Set("stripe.shipping_countries", []string{"SE"})
	viper.Set("stripe.payment_method_types", []string{"card", "klarna"})
	viper.Set("stripe.locale", "sv")
	viper.Set("stripe.allow_promotion_codes", true)

	return MustNewCheckoutService(
		WithProductRepository(repo),
		WithPaymentGateway(gw),
		WithOrderStore(store),
		WithOrderRepository(&MockOrderRepository{}),
	)
}

func widget() *product.Product {
	return &product.Product{
		ID:          "p1",
		Title:       "Widget",
		Description: "A very fine widget",
		Price:       decimal.RequireFromString("19.99"),
		ImageURL:    "/uploads/widget.png",
	}
}

func TestCreateCheckout_Success(t *testing.T) {
	repo := &MockProductRepository{Products: map[string]*product.Product{"p1": widget()}}
	gw := &MockPaymentGateway{Session: &gateway.Session{ID: "sess_123", URL: "https://pay.example.com/s/123"}}
	store := &MockOrderStore{}
	svc := newTestService(repo, gw, store)

	items := []cart.Item{{ProductID: "p1", Quantity: 2}}
	session, err := svc.CreateCheckout(context.Background(), items)

	require.NoError(t, err)
	assert.Equal(t, "sess_123", session.ID)

	require.Len(t, gw.Inputs, 1)
	input := gw.Inputs[0]
	require.Len(t, input.LineItems, 1)
	li := input.LineItems[0]
	assert.Equal(t, "Widget", li.Name)
	assert.Equal(t, int64(1999), li.UnitAmount)
	assert.Equal(t, 2, li.Quantity)
	assert.Equal(t, currency.CurrencySEK, li.Currency)
	assert.Equal(t, []string{"https://api.example.com/uploads/widget.png"}, li.ImageURLs)

	assert.Equal(t, "https://shop.example.com?success=true", input.SuccessURL)
	assert.Equal(t, "https://shop.example.com?success=false", input.CancelURL)
	assert.Equal(t, []string{"SE"}, input.ShippingCountries)
	assert.Equal(t, []string{"card", "klarna"}, input.PaymentMethodTypes)
	assert.Equal(t, "sv", input.Locale)
	assert.True(t, input.AllowPromotionCodes)
	assert.NotEmpty(t, input.IdempotencyKey)

	require.Len(t, store.Created, 1)
	assert.Equal(t, items, store.Created[0].Products)
	assert.Equal(t, "sess_123", store.Created[0].GatewaySessionID)
}

func TestCreateCheckout_EmptyCart(t *testing.T) {
	repo := &MockProductRepository{}
	gw := &MockPaymentGateway{}
	store := &MockOrderStore{}
	svc := newTestService(repo, gw, store)

	session, err := svc.CreateCheckout(context.Background(), []cart.Item{})

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, session)
	assert.Zero(t, repo.Calls)
	assert.Empty(t, gw.Inputs)
	assert.Empty(t, store.Created)
}

func TestCreateCheckout_NonPositiveQuantity(t *testing.T) {
	repo := &MockProductRepository{Products: map[string]*product.Product{"p1": widget()}}
	gw := &MockPaymentGateway{}
	store := &MockOrderStore{}
	svc := newTestService(repo, gw, store)

	_, err := svc.CreateCheckout(context.Background(), []cart.Item{{ProductID: "p1", Quantity: 0}})

	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Empty(t, gw.Inputs)
	assert.Empty(t, store.Created)
}

func TestCreateCheckout_ProductNotFound(t *testing.T) {
	repo := &MockProductRepository{Products: map[string]*product.Product{"p1": widget()}}
	gw := &MockPaymentGateway{}
	store := &MockOrderStore{}
	svc := newTestService(repo, gw, store)

	_, err := svc.CreateCheckout(context.Background(), []cart.Item{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "ghost", Quantity: 1},
	})

	assert.ErrorIs(t, err, iproductrepo.ErrNotFound)
	assert.Empty(t, gw.Inputs, "no gateway call after a failed lookup")
	assert.Empty(t, store.Created, "no order for a failed checkout")
}

func TestCreateCheckout_InvalidPrice(t *testing.T) {
	corrupted := widget()
	corrupted.Price = decimal.Zero
	repo := &MockProductRepository{Products: map[string]*product.Product{"p1": corrupted}}
	gw := &MockPaymentGateway{}
	store := &MockOrderStore{}
	svc := newTestService(repo, gw, store)

	_, err := svc.CreateCheckout(context.Background(), []cart.Item{{ProductID: "p1", Quantity: 1}})

	assert.ErrorIs(t, err, product.ErrInvalidPrice)
	assert.Empty(t, gw.Inputs)
	assert.Empty(t, store.Created)
}

func TestCreateCheckout_GatewayErrorPassesThrough(t *testing.T) {
	repo := &MockProductRepository{Products: map[string]*product.Product{"p1": widget()}}
	declined := gateway.NewError(gateway.KindCardDeclined, errors.New("card was declined"))
	gw := &MockPaymentGateway{Err: declined}
	store := &MockOrderStore{}
	svc := newTestService(repo, gw, store)

	_, err := svc.CreateCheckout(context.Background(), []cart.Item{{ProductID: "p1", Quantity: 1}})

	var gwErr *gateway.Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, gateway.KindCardDeclined, gwErr.Kind)
	assert.Empty(t, store.Created, "no order when the session was not created")
}

func TestCreateCheckout_StoreFailureAfterSession(t *testing.T) {
	repo := &MockProductRepository{Products: map[string]*product.Product{"p1": widget()}}
	gw := &MockPaymentGateway{Session: &gateway.Session{ID: "sess_456"}}
	store := &MockOrderStore{Err: errors.New("connection reset")}
	svc := newTestService(repo, gw, store)

	session, err := svc.CreateCheckout(context.Background(), []cart.Item{{ProductID: "p1", Quantity: 1}})

	require.Error(t, err)
	assert.Nil(t, session)
	assert.Contains(t, err.Error(), "sess_456")
	assert.Len(t, gw.Inputs, 1)
}

func TestCreateCheckout_IdempotencyKeyUniquePerRequest(t *testing.T) {
	repo := &MockProductRepository{Products: map[string]*product.Product{"p1": widget()}}
	gw := &MockPaymentGateway{Session: &gateway.Session{ID: "sess_123"}}
	store := &MockOrderStore{}
	svc := newTestService(repo, gw, store)

	items := []cart.Item{{ProductID: "p1", Quantity: 1}}
	_, err := svc.CreateCheckout(context.Background(), items)
	require.NoError(t, err)
	_, err = svc.CreateCheckout(context.Background(), items)
	require.NoError(t, err)

	require.Len(t, gw.Inputs, 2)
	assert.NotEqual(t, gw.Inputs[0].IdempotencyKey, gw.Inputs[1].IdempotencyKey)
}

func TestCreateCheckout_RepricesEveryItem(t *testing.T) {
	second := &product.Product{
		ID:    "p2",
		Title: "Gadget",
		Price: decimal.RequireFromString("5.005"),
	}
	repo := &MockProductRepository{Products: map[string]*product.Product{"p1": widget(), "p2": second}}
	gw := &MockPaymentGateway{Session: &gateway.Session{ID: "sess_789"}}
	store := &MockOrderStore{}
	svc := newTestService(repo, gw, store)

	_, err := svc.CreateCheckout(context.Background(), []cart.Item{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 3},
	})

	require.NoError(t, err)
	require.Len(t, gw.Inputs, 1)
	require.Len(t, gw.Inputs[0].LineItems, 2)

	// Positional: line items keep cart order regardless of lookup completion order.
	assert.Equal(t, int64(1999), gw.Inputs[0].LineItems[0].UnitAmount)
	assert.Equal(t, int64(501), gw.Inputs[0].LineItems[1].UnitAmount)
	assert.Equal(t, 3, gw.Inputs[0].LineItems[1].Quantity)
}

func TestGetOrders_DelegatesFilter(t *testing.T) {
	ordersRepo := &MockOrderRepository{}
	svc := MustNewCheckoutService(WithOrderRepository(ordersRepo))

	filter := &order.QueryOrdersModel{SessionIds: []string{"sess_123"}, Limit: 10}
	_, err := svc.GetOrders(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, filter, ordersRepo.Filter)
}
