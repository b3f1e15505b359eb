package models

import (
	"fmt"
	"time"
)

// ShippingInfo is the delivery address captured at checkout
type ShippingInfo struct {
	FirstName string `bson:"first_name" json:"firstName"`
	LastName  string `bson:"last_name" json:"lastName"`
	Street    string `bson:"street" json:"street"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Zip       string `bson:"zip" json:"zip"`
}

// FullName joins first and last name
func (s ShippingInfo) FullName() string {
	return s.FirstName + " " + s.LastName
}

// CityLine renders "City, ST 12345"
func (s ShippingInfo) CityLine() string {
	return fmt.Sprintf("%s, %s %s", s.City, s.State, s.Zip)
}

// Order is a placed order. It is never mutated after creation.
type Order struct {
	OrderNumber  string         `bson:"order_number" json:"orderNumber"`
	Items        []CartLineItem `bson:"items" json:"items"`
	Subtotal     float64        `bson:"subtotal" json:"subtotal"`
	Shipping     float64        `bson:"shipping" json:"shipping"`
	Tax          float64        `bson:"tax" json:"tax"`
	Total        float64        `bson:"total" json:"total"`
	ShippingInfo ShippingInfo   `bson:"shipping_info" json:"shippingInfo"`
	OrderDate    time.Time      `bson:"order_date" json:"orderDate"`
}

// ItemCount is the number of units in the order
func (o Order) ItemCount() int {
	return Summarize(o.Items).ItemCount
}
