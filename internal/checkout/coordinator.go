package checkout

import (
	"context"
	"log"
	"sync"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/orderclient"
	"storefront/internal/pricing"
)

// State tracks the progress of a checkout attempt.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateConfirmed  State = "confirmed"
	StateFailed     State = "failed"
)

// OrderCreator is the slice of the order service the coordinator needs.
type OrderCreator interface {
	Create(ctx context.Context, req orderclient.CreateOrderRequest) (models.Order, error)
}

var validPaymentMethods = map[string]bool{
	"cash": true,
	"card": true,
}

// SubmitInput is one user-initiated checkout attempt. Discount is an
// already-resolved amount from a promo step; 0 when none applies.
type SubmitInput struct {
	UserID        string
	Shipping      models.ShippingInfo
	PaymentMethod string
	Discount      float64
}

// Coordinator turns a validated cart into a submitted order. It allows one
// submission at a time and clears the cart only after the order service has
// confirmed the order.
type Coordinator struct {
	mu       sync.Mutex
	state    State
	inFlight bool
	closed   bool

	cart   *cart.Store
	orders OrderCreator
	fees   models.FeeConfig
}

func NewCoordinator(store *cart.Store, orders OrderCreator, fees models.FeeConfig) *Coordinator {
	return &Coordinator{
		state:  StateIdle,
		cart:   store,
		orders: orders,
		fees:   fees,
	}
}

// State returns the current checkout state.
func (co *Coordinator) State() State {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.state
}

// Close tears the coordinator down. A submission still in flight is
// abandoned: its result will not clear the cart or change state.
func (co *Coordinator) Close() {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.closed = true
}

// Submit validates the cart and inputs, posts the order exactly once, and on
// success clears the cart and returns the server's order record. On any
// failure the cart is left untouched so the user can retry.
func (co *Coordinator) Submit(ctx context.Context, input SubmitInput) (models.Order, error) {
	co.mu.Lock()
	if co.closed {
		co.mu.Unlock()
		return models.Order{}, ErrClosed
	}
	if co.inFlight {
		co.mu.Unlock()
		return models.Order{}, ErrSubmitInFlight
	}
	co.inFlight = true
	co.state = StateValidating
	co.mu.Unlock()

	order, err := co.run(ctx, input)

	co.mu.Lock()
	co.inFlight = false
	if !co.closed {
		if err != nil {
			co.state = StateFailed
		} else {
			co.state = StateConfirmed
		}
	}
	co.mu.Unlock()
	return order, err
}

func (co *Coordinator) run(ctx context.Context, input SubmitInput) (models.Order, error) {
	lines := co.cart.Snapshot()

	if verr := validate(lines, input); verr != nil {
		return models.Order{}, verr
	}

	summary, err := pricing.ComputeSummary(lines, co.fees, input.Discount)
	if err != nil {
		return models.Order{}, &ValidationError{Field: "pricing", Reason: err.Error()}
	}

	co.mu.Lock()
	co.state = StateSubmitting
	co.mu.Unlock()

	order, err := co.orders.Create(ctx, orderclient.CreateOrderRequest{
		UserID:        input.UserID,
		Items:         lines,
		ShippingInfo:  input.Shipping,
		PaymentMethod: input.PaymentMethod,
		Pricing:       summary,
	})
	if err != nil {
		return models.Order{}, &SubmissionError{Err: err}
	}

	co.mu.Lock()
	abandoned := co.closed
	co.mu.Unlock()
	if abandoned {
		// The order exists server-side but this session is gone; leave the
		// cart alone for whoever picks the session back up.
		log.Printf("[CHECKOUT] [WARN] order %s confirmed after teardown, cart left untouched", order.OrderID)
		return order, ErrClosed
	}

	// Clearing strictly after a successful response, never before.
	co.cart.Clear()
	log.Printf("[CHECKOUT] [INFO] order %s confirmed, cart cleared", order.OrderID)
	return order, nil
}

func validate(lines []models.CartLine, input SubmitInput) *ValidationError {
	if len(lines) == 0 {
		return &ValidationError{Field: "cart", Reason: "cart is empty"}
	}
	if !input.Shipping.Complete() {
		return &ValidationError{Field: "shippingInfo", Reason: "name, address and contact are required"}
	}
	if input.PaymentMethod == "" {
		return &ValidationError{Field: "paymentMethod", Reason: "payment method is required"}
	}
	if !validPaymentMethods[input.PaymentMethod] {
		return &ValidationError{Field: "paymentMethod", Reason: "unknown payment method"}
	}
	if input.Discount < 0 {
		return &ValidationError{Field: "discount", Reason: "discount cannot be negative"}
	}
	return nil
}
