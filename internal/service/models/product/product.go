package product

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidPrice marks a catalog record whose price is missing, not a
// number, or not strictly positive. Such records must never reach the
// payment gateway.
var ErrInvalidPrice = errors.New("invalid product price")

// Product is the trusted, catalog-resolved view of a sellable item. Price is
// in major currency units (kronor, not öre).
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
}

// ValidatePrice rejects non-positive prices. A zero decimal also covers the
// "price missing" case since that is the type's zero value.
func (p *Product) ValidatePrice() error {
	if !p.Price.IsPositive() {
		return ErrInvalidPrice
	}

	return nil
}
