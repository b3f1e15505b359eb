package order

import (
	"github.com/shopspring/decimal"

	"github.com/chibuezemicahe/wdd330-sleepoutside/models"
)

// Pricing holds the shipping and tax rules applied at checkout
type Pricing struct {
	// orders with a subtotal strictly above this ship free
	FreeShippingOver decimal.Decimal
	FlatShipping     decimal.Decimal
	TaxRate          decimal.Decimal
}

// DefaultPricing is free shipping over $100, otherwise $10, and 8% tax
func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingOver: decimal.NewFromInt(100),
		FlatShipping:     decimal.NewFromInt(10),
		TaxRate:          decimal.RequireFromString("0.08"),
	}
}

// Totals are rounded to cents
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Compute prices the given line items
func (p Pricing) Compute(items []models.CartLineItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		price := decimal.NewFromFloat(item.Product.FinalPrice)
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	subtotal = subtotal.Round(2)

	shipping := p.FlatShipping
	if subtotal.GreaterThan(p.FreeShippingOver) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(p.TaxRate).Round(2)

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping.Round(2),
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax).Round(2),
	}
}
