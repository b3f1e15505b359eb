package models

// CartLineItem is a product snapshot and how many of it are in the cart
type CartLineItem struct {
	Product  Product `bson:"product" json:"product"`
	Quantity int     `bson:"quantity" json:"quantity"`
}

// LineTotal is price times quantity
func (li CartLineItem) LineTotal() float64 {
	return li.Product.FinalPrice * float64(li.Quantity)
}

// CartSummary is derived from the cart contents on every read
type CartSummary struct {
	Subtotal  float64 `json:"subtotal"`
	ItemCount int     `json:"item_count"`
}

// Summarize computes the subtotal and item count of the given line items.
// Item count is the sum of quantities.
func Summarize(items []CartLineItem) CartSummary {
	var s CartSummary
	for _, item := range items {
		s.Subtotal += item.LineTotal()
		s.ItemCount += item.Quantity
	}
	return s
}
