package lineitem

import (
	"fmt"
	"net/url"

	"github.com/nordkart/checkout-svc/internal/service/models/currency"
	"github.com/nordkart/checkout-svc/internal/service/models/product"
	"github.com/shopspring/decimal"
)

// defaultDescription is sent to the gateway when the catalog record has none.
const defaultDescription = "No description available"

var minorUnitsPerMajor = decimal.NewFromInt(100)

// LineItem is the gateway-facing priced unit derived from a trusted Product.
// UnitAmount is in minor currency units (öre).
type LineItem struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	ImageURLs   []string          `json:"imageUrls"`
	Currency    currency.Currency `json:"currency"`
	UnitAmount  int64             `json:"unitAmount"`
	Quantity    int               `json:"quantity"`
}

// MinorUnits converts a major-unit price to minor units, rounding half away
// from zero: 19.995 kronor is 2000 öre. The multiplication happens in decimal
// space so prices like 19.995 do not drift below the rounding boundary the
// way float64 math would.
func MinorUnits(price decimal.Decimal) int64 {
	return price.Mul(minorUnitsPerMajor).Round(0).IntPart()
}

// FromProduct builds a LineItem from a catalog product and a cart quantity.
// Prices and names always come from the product, never from the client.
// imageBaseURL is the public server base used to absolutize relative catalog
// image references.
func FromProduct(p *product.Product, quantity int, imageBaseURL string) (*LineItem, error) {
	if err := p.ValidatePrice(); err != nil {
		return nil, fmt.Errorf("product %s: %w", p.ID, err)
	}

	description := p.Description
	if description == "" {
		description = defaultDescription
	}

	imageURLs := []string{}
	if p.ImageURL != "" {
		resolved, err := resolveImageURL(imageBaseURL, p.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("product %s: resolve image url: %w", p.ID, err)
		}
		imageURLs = append(imageURLs, resolved)
	}

	return &LineItem{
		Name:        p.Title,
		Description: description,
		ImageURLs:   imageURLs,
		Currency:    currency.CurrencySEK,
		UnitAmount:  MinorUnits(p.Price),
		Quantity:    quantity,
	}, nil
}

// resolveImageURL joins a catalog image reference with the server base URL.
// Absolute references pass through unchanged.
func resolveImageURL(base string, ref string) (string, error) {
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if refURL.IsAbs() {
		return ref, nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	return baseURL.ResolveReference(refURL).String(), nil
}
