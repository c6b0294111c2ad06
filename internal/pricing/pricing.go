package pricing

import (
	"fmt"
	"math"

	"storefront/internal/models"
)

// LineError reports a cart line that cannot be priced.
type LineError struct {
	ProductID string
	Reason    string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %s: %s", e.ProductID, e.Reason)
}

// ComputeSummary derives the order summary for the given lines and fee rules.
// Pure: no I/O, no mutation of the inputs. discount is an already-resolved
// non-negative amount; it is clamped so the grand total never goes below zero.
func ComputeSummary(lines []models.CartLine, fees models.FeeConfig, discount float64) (models.OrderSummary, error) {
	if discount < 0 || !isFinite(discount) {
		return models.OrderSummary{}, fmt.Errorf("discount must be a non-negative finite amount")
	}

	subtotal := 0.0
	for _, line := range lines {
		if err := validateLine(line); err != nil {
			return models.OrderSummary{}, err
		}
		subtotal += line.LineTotal()
	}

	deliveryFee := fees.FlatDeliveryFee
	if subtotal >= fees.FreeShippingThreshold {
		deliveryFee = 0
	}

	// Handling fee is flat per order, independent of cart size.
	handlingFee := fees.HandlingFee

	if max := subtotal + deliveryFee + handlingFee; discount > max {
		discount = max
	}

	// Round once at the end so per-line rounding error cannot compound.
	total := round2(subtotal + deliveryFee + handlingFee - discount)
	if total < 0 {
		total = 0
	}

	return models.OrderSummary{
		Subtotal:    round2(subtotal),
		DeliveryFee: round2(deliveryFee),
		HandlingFee: round2(handlingFee),
		Discount:    round2(discount),
		GrandTotal:  total,
	}, nil
}

func validateLine(line models.CartLine) error {
	if line.UnitPrice < 0 || !isFinite(line.UnitPrice) {
		return &LineError{ProductID: line.ProductID, Reason: "unit price must be a non-negative finite number"}
	}
	if line.Quantity < 1 {
		return &LineError{ProductID: line.ProductID, Reason: "quantity must be at least 1"}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// round2 rounds half-up to two decimal places.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
