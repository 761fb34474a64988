package stripegateway

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nordkart/checkout-svc/internal/gateway"
	"github.com/nordkart/checkout-svc/internal/service/models/lineitem"
	"github.com/spf13/viper"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

const defaultTimeoutSeconds = 10

// Gateway creates Stripe Checkout Sessions. It owns its API client; the
// secret key is read once at construction, never from package-level state.
type Gateway struct {
	api     *client.API
	timeout time.Duration
}

// MustNewGateway builds a Stripe gateway from STRIPE_SECRET_KEY and the
// configured call timeout. Network retries are disabled: session creation is
// guarded by a per-request idempotency key, and a failed call is surfaced to
// the caller rather than retried.
func MustNewGateway() *Gateway {
	secretKey := os.Getenv("STRIPE_SECRET_KEY")
	if secretKey == "" {
		panic("STRIPE_SECRET_KEY is not set")
	}

	timeoutSeconds := viper.GetInt("stripe.timeout_seconds")
	if timeoutSeconds == 0 {
		timeoutSeconds = defaultTimeoutSeconds
	}
	timeout := time.Duration(timeoutSeconds) * time.Second

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
		HTTPClient:        &http.Client{Timeout: timeout},
	})

	api := &client.API{}
	api.Init(secretKey, &stripe.Backends{API: backend})

	return &Gateway{
		api:     api,
		timeout: timeout,
	}
}

// CreateCheckoutSession opens a hosted one-time-payment checkout flow for the
// given line items. Failures come back as *gateway.Error.
func (g *Gateway) CreateCheckoutSession(
	ctx context.Context,
	input gateway.CreateSessionInput,
) (*gateway.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(input.SuccessURL),
		CancelURL:  stripe.String(input.CancelURL),
		LineItems:  lineItemParams(input.LineItems),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(input.ShippingCountries),
		},
		PaymentMethodTypes:  stripe.StringSlice(input.PaymentMethodTypes),
		Locale:              stripe.String(input.Locale),
		AllowPromotionCodes: stripe.Bool(input.AllowPromotionCodes),
	}
	params.Context = ctx
	if input.IdempotencyKey != "" {
		params.SetIdempotencyKey(input.IdempotencyKey)
	}

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, classifyError(err)
	}

	return &gateway.Session{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

// lineItemParams converts repriced line items into Stripe price_data params.
func lineItemParams(items []lineitem.LineItem) []*stripe.CheckoutSessionLineItemParams {
	params := make([]*stripe.CheckoutSessionLineItemParams, len(items))
	for i, item := range items {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:        stripe.String(item.Name),
			Description: stripe.String(item.Description),
		}
		if len(item.ImageURLs) > 0 {
			productData.Images = stripe.StringSlice(item.ImageURLs)
		}

		params[i] = &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(strings.ToLower(item.Currency.String())),
				ProductData: productData,
				UnitAmount:  stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		}
	}

	return params
}

// classifyError maps a stripe-go error onto the closed gateway error set.
// Authentication and rate-limit failures are recognized by HTTP status before
// the type switch: Stripe reports bad credentials as invalid_request with a
// 401.
func classifyError(err error) *gateway.Error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch {
		case stripeErr.HTTPStatusCode == http.StatusTooManyRequests:
			return gateway.NewError(gateway.KindRateLimited, err)
		case stripeErr.HTTPStatusCode == http.StatusUnauthorized:
			return gateway.NewError(gateway.KindAuthentication, err)
		case stripeErr.Type == stripe.ErrorTypeCard:
			return gateway.NewError(gateway.KindCardDeclined, err)
		case stripeErr.Type == stripe.ErrorTypeInvalidRequest:
			return gateway.NewError(gateway.KindInvalidRequest, err)
		default:
			return gateway.NewError(gateway.KindInternal, err)
		}
	}

	// Not a Stripe API error: the request never produced a gateway response.
	// Timeouts and transport failures land here.
	return gateway.NewError(gateway.KindConnection, err)
}
