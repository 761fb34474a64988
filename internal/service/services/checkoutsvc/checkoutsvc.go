package checkoutsvc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nordkart/checkout-svc/internal/dal/interfaces/iorderrepo"
	"github.com/nordkart/checkout-svc/internal/dal/interfaces/iproductrepo"
	"github.com/nordkart/checkout-svc/internal/gateway"
	"github.com/nordkart/checkout-svc/internal/service/models/cart"
	"github.com/nordkart/checkout-svc/internal/service/models/lineitem"
	"github.com/nordkart/checkout-svc/internal/service/models/order"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

// CheckoutService reprices carts against the catalog, opens checkout
// sessions at the payment gateway, and records the resulting orders.
type CheckoutService struct {
	productRepo iproductrepo.IProductRepository
	orderRepo   iorderrepo.IOrderRepository
	orderStore  iorderrepo.IOrderStore
	gateway     gateway.PaymentGateway

	clientBaseURL       string
	serverBaseURL       string
	shippingCountries   []string
	paymentMethodTypes  []string
	locale              string
	allowPromotionCodes bool
}

// option is a function that configures the CheckoutService.
type option func(*CheckoutService)

// MustNewCheckoutService creates a new CheckoutService. Session parameters
// that are deployment-dependent (redirect base URL, shipping allow-list,
// accepted payment methods, locale) come from configuration.
func MustNewCheckoutService(opts ...option) *CheckoutService {
	s := &CheckoutService{
		clientBaseURL:       viper.GetString("checkout.client_base_url"),
		serverBaseURL:       viper.GetString("checkout.server_base_url"),
		shippingCountries:   viper.GetStringSlice("stripe.shipping_countries"),
		paymentMethodTypes:  viper.GetStringSlice("stripe.payment_method_types"),
		locale:              viper.GetString("stripe.locale"),
		allowPromotionCodes: viper.GetBool("stripe.allow_promotion_codes"),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithProductRepository sets the product catalog repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(repo iproductrepo.IProductRepository) option {
	return func(s *CheckoutService) {
		s.productRepo = repo
	}
}

// WithOrderRepository sets the order repository used for listings.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *CheckoutService) {
		s.orderRepo = repo
	}
}

// WithOrderStore sets the transactional order store.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderStore(store iorderrepo.IOrderStore) option {
	return func(s *CheckoutService) {
		s.orderStore = store
	}
}

// WithPaymentGateway sets the payment gateway client.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPaymentGateway(gw gateway.PaymentGateway) option {
	return func(s *CheckoutService) {
		s.gateway = gw
	}
}

// CreateCheckout validates the cart, reprices it against the catalog,
// creates a gateway checkout session, and records the pending order. Any
// per-item failure aborts the whole request; no partial checkout exists.
func (s *CheckoutService) CreateCheckout(
	ctx context.Context,
	items []cart.Item,
) (*gateway.Session, error) {
	ctx, span := otel.Tracer("checkoutsvc").Start(ctx, "CheckoutService.CreateCheckout")
	defer span.End()

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, ErrInvalidQuantity)
		}
	}

	lineItems, err := s.resolveLineItems(ctx, items)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, gateway.CreateSessionInput{
		SuccessURL:          s.clientBaseURL + "?success=true",
		CancelURL:           s.clientBaseURL + "?success=false",
		LineItems:           lineItems,
		ShippingCountries:   s.shippingCountries,
		PaymentMethodTypes:  s.paymentMethodTypes,
		Locale:              s.locale,
		AllowPromotionCodes: s.allowPromotionCodes,
		IdempotencyKey:      uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.orderStore.Create(ctx, order.Order{
		Products:         items,
		GatewaySessionID: session.ID,
	}); err != nil {
		// The gateway session exists but no local order does. Sessions
		// expire upstream after 24h; the id is logged for reconciliation.
		slog.Error("Order persistence failed after session creation",
			"session_id", session.ID,
			"error", err,
		)

		return nil, fmt.Errorf("failed to store order for session %s: %w", session.ID, err)
	}

	return session, nil
}

// resolveLineItems fetches and reprices every cart item concurrently. The
// first failure cancels the remaining lookups and aborts the checkout.
// Prices come exclusively from the catalog.
func (s *CheckoutService) resolveLineItems(
	ctx context.Context,
	items []cart.Item,
) ([]lineitem.LineItem, error) {
	g, ctx := errgroup.WithContext(ctx)

	lineItems := make([]lineitem.LineItem, len(items))
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			p, err := s.productRepo.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}

			li, err := lineitem.FromProduct(p, item.Quantity, s.serverBaseURL)
			if err != nil {
				return err
			}
			lineItems[i] = *li

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return lineItems, nil
}

// GetOrders retrieves recorded orders based on filter.
func (s *CheckoutService) GetOrders(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	ctx, span := otel.Tracer("checkoutsvc").Start(ctx, "CheckoutService.GetOrders")
	defer span.End()

	return s.orderRepo.Query(ctx, filter)
}
