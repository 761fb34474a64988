package cart

// Item is a client-supplied cart line: a product reference and a quantity.
// Prices never come from the client; they are resolved server-side against
// the product catalog.
type Item struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"gt=0"`
}
