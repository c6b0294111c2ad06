package models

// ProductSnapshot freezes the display fields of a product at the moment it is
// added to the cart, so later catalog edits never change what the customer saw.
type ProductSnapshot struct {
	Title string `bson:"title" json:"title"`
	Image string `bson:"image,omitempty" json:"image,omitempty"`
	Brand string `bson:"brand,omitempty" json:"brand,omitempty"`
}

// CartLine is a single product (and variant) entry in the cart.
type CartLine struct {
	ProductID       string          `bson:"productId" json:"productId"`
	UnitPrice       float64         `bson:"unitPrice" json:"unitPrice"`
	Quantity        int             `bson:"quantity" json:"quantity"`
	SelectedVariant string          `bson:"selectedVariant,omitempty" json:"selectedVariant,omitempty"`
	Snapshot        ProductSnapshot `bson:"snapshot" json:"snapshot"`
}

// LineTotal returns unit price times quantity, unrounded.
func (l CartLine) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// FeeConfig carries the externally supplied fee rules. Immutable per computation.
type FeeConfig struct {
	FreeShippingThreshold float64 `json:"freeShippingThreshold"`
	FlatDeliveryFee       float64 `json:"flatDeliveryFee"`
	HandlingFee           float64 `json:"handlingFee"`
}

// OrderSummary is the computed price breakdown for a cart state.
// All values are non-negative and rounded to two decimal places.
type OrderSummary struct {
	Subtotal    float64 `bson:"subtotal" json:"subtotal"`
	DeliveryFee float64 `bson:"deliveryFee" json:"deliveryFee"`
	HandlingFee float64 `bson:"handlingFee" json:"handlingFee"`
	Discount    float64 `bson:"discount" json:"discount"`
	GrandTotal  float64 `bson:"grandTotal" json:"grandTotal"`
}
