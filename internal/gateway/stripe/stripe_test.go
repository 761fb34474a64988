package stripegateway

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/nordkart/checkout-svc/internal/gateway"
	"github.com/nordkart/checkout-svc/internal/service/models/currency"
	"github.com/nordkart/checkout-svc/internal/service/models/lineitem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want gateway.ErrorKind
	}{
		{
			"card error",
			&stripe.Error{Type: stripe.ErrorTypeCard, HTTPStatusCode: http.StatusPaymentRequired},
			gateway.KindCardDeclined,
		},
		{
			"rate limited",
			&stripe.Error{Type: stripe.ErrorTypeInvalidRequest, HTTPStatusCode: http.StatusTooManyRequests},
			gateway.KindRateLimited,
		},
		{
			"invalid request",
			&stripe.Error{Type: stripe.ErrorTypeInvalidRequest, HTTPStatusCode: http.StatusBadRequest},
			gateway.KindInvalidRequest,
		},
		{
			"bad credentials",
			&stripe.Error{Type: stripe.ErrorTypeInvalidRequest, HTTPStatusCode: http.StatusUnauthorized},
			gateway.KindAuthentication,
		},
		{
			"api error",
			&stripe.Error{Type: stripe.ErrorTypeAPI, HTTPStatusCode: http.StatusInternalServerError},
			gateway.KindInternal,
		},
		{
			"deadline exceeded",
			context.DeadlineExceeded,
			gateway.KindConnection,
		},
		{
			"plain transport error",
			errors.New("dial tcp: connection refused"),
			gateway.KindConnection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err)
			assert.Equal(t, tt.want, got.Kind)
			assert.ErrorIs(t, got, tt.err, "original error must stay wrapped")
		})
	}
}

func TestLineItemParams(t *testing.T) {
	items := []lineitem.LineItem{
		{
			Name:        "Widget",
			Description: "A very fine widget",
			ImageURLs:   []string{"https://api.example.com/uploads/widget.png"},
			Currency:    currency.CurrencySEK,
			UnitAmount:  1999,
			Quantity:    2,
		},
		{
			Name:        "Gadget",
			Description: "No description available",
			ImageURLs:   []string{},
			Currency:    currency.CurrencySEK,
			UnitAmount:  501,
			Quantity:    1,
		},
	}

	params := lineItemParams(items)

	require.Len(t, params, 2)

	first := params[0]
	assert.Equal(t, "sek", *first.PriceData.Currency)
	assert.Equal(t, int64(1999), *first.PriceData.UnitAmount)
	assert.Equal(t, int64(2), *first.Quantity)
	assert.Equal(t, "Widget", *first.PriceData.ProductData.Name)
	require.Len(t, first.PriceData.ProductData.Images, 1)
	assert.Equal(t, "https://api.example.com/uploads/widget.png", *first.PriceData.ProductData.Images[0])

	second := params[1]
	assert.Nil(t, second.PriceData.ProductData.Images, "no image entry without a catalog image")
	assert.Equal(t, int64(501), *second.PriceData.UnitAmount)
}
