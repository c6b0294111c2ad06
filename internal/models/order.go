package models

import "time"

// OrderStatus values are assigned and advanced by the order service; the
// client only mirrors them.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// statusTransitions mirrors the forward path pending → processing → shipped →
// delivered, with cancellation allowed until the order has shipped.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// CanTransitionTo reports whether moving from s to next is a valid status
// change. The server remains authoritative; this is a client-side precheck.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known status values.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ShippingInfo captures the delivery details collected at checkout.
type ShippingInfo struct {
	Name    string `bson:"name" json:"name"`
	Address string `bson:"address" json:"address"`
	Contact string `bson:"contact" json:"contact"`
	Note    string `bson:"note,omitempty" json:"note,omitempty"`
}

// Complete reports whether all required shipping fields are present.
func (s ShippingInfo) Complete() bool {
	return s.Name != "" && s.Address != "" && s.Contact != ""
}

// Order mirrors the order document owned by the order service. OrderID is
// server-assigned; the client never invents one.
type Order struct {
	OrderID       string       `bson:"orderId" json:"orderId"`
	UserID        string       `bson:"userId,omitempty" json:"userId,omitempty"`
	Items         []CartLine   `bson:"items" json:"items"`
	Pricing       OrderSummary `bson:"pricing" json:"pricing"`
	ShippingInfo  ShippingInfo `bson:"shippingInfo" json:"shippingInfo"`
	PaymentMethod string       `bson:"paymentMethod" json:"paymentMethod"`
	Status        OrderStatus  `bson:"status" json:"status"`
	OrderDate     time.Time    `bson:"orderDate" json:"orderDate"`
}
