package orderclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/internal/models"
)

// StatusError is returned when the order service answers with a non-2xx
// status. Body carries the (truncated) response payload for diagnostics.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("order service returned %d: %s", e.Code, e.Body)
}

const maxErrorBody = 512

// Client consumes the external order service. Every request runs under the
// configured timeout; retries are the caller's decision.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// CreateOrderRequest is the POST /orders body. Pricing is computed locally
// and submitted alongside the items for the backend to verify.
type CreateOrderRequest struct {
	UserID        string              `json:"userId,omitempty"`
	Items         []models.CartLine   `json:"items"`
	ShippingInfo  models.ShippingInfo `json:"shippingInfo"`
	PaymentMethod string              `json:"paymentMethod"`
	Pricing       models.OrderSummary `json:"pricing"`
}

// Create submits a new order and returns the created order with its
// server-assigned id and initial pending status.
func (c *Client) Create(ctx context.Context, req CreateOrderRequest) (models.Order, error) {
	var order models.Order
	err := c.doJSON(ctx, http.MethodPost, "/orders", req, &order)
	return order, err
}

// List returns all orders. Consumed by the admin console.
func (c *Client) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := c.doJSON(ctx, http.MethodGet, "/orders", nil, &orders)
	return orders, err
}

// ListByUser returns the order history for one user.
func (c *Client) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := c.doJSON(ctx, http.MethodGet, "/orders/user/"+userID, nil, &orders)
	return orders, err
}

// UpdateStatus moves an order to the given status. The server stays
// authoritative over which transitions it accepts.
func (c *Client) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) (models.Order, error) {
	var order models.Order
	body := map[string]models.OrderStatus{"status": status}
	err := c.doJSON(ctx, http.MethodPut, "/orders/"+orderID, body, &order)
	return order, err
}

// Delete removes an order.
func (c *Client) Delete(ctx context.Context, orderID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/orders/"+orderID, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("order service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("order service response unreadable: %w", err)
	}
	return nil
}
