package models

// Slot name prefixes in the durable key/value store
const (
	CartSlotPrefix   = "so-cart"
	OrdersSlotPrefix = "so-orders"
)

// Session identifies one shopper's cart and order history. It is passed
// explicitly to every cart and order operation.
type Session struct {
	ID string `json:"session_id"`
}

// CartKey is the slot holding the whole cart array
func (s Session) CartKey() string {
	return CartSlotPrefix + ":" + s.ID
}

// OrdersKey is the slot holding the whole order history array
func (s Session) OrdersKey() string {
	return OrdersSlotPrefix + ":" + s.ID
}
