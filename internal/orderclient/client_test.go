package orderclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, 2*time.Second)
}

func TestCreateReturnsServerOrder(t *testing.T) {
	var gotBody CreateOrderRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Order{
			OrderID: "ord-42",
			Status:  models.StatusPending,
			Items:   gotBody.Items,
			Pricing: gotBody.Pricing,
		})
	})

	order, err := client.Create(context.Background(), CreateOrderRequest{
		Items:         []models.CartLine{{ProductID: "p1", UnitPrice: 10, Quantity: 2}},
		ShippingInfo:  models.ShippingInfo{Name: "A", Address: "B", Contact: "C"},
		PaymentMethod: "card",
		Pricing:       models.OrderSummary{Subtotal: 20, DeliveryFee: 25, HandlingFee: 5, GrandTotal: 50},
	})

	require.NoError(t, err)
	assert.Equal(t, "ord-42", order.OrderID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "p1", gotBody.Items[0].ProductID)
	assert.Equal(t, 50.0, gotBody.Pricing.GrandTotal)
}

func TestCreateSurfacesServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"stock changed"}`))
	})

	_, err := client.Create(context.Background(), CreateOrderRequest{})

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusUnprocessableEntity, serr.Code)
	assert.Contains(t, serr.Body, "stock changed")
}

func TestCreateTransportFailure(t *testing.T) {
	client := New("http://127.0.0.1:1", 200*time.Millisecond)

	_, err := client.Create(context.Background(), CreateOrderRequest{})

	require.Error(t, err)
	var serr *StatusError
	assert.False(t, errors.As(err, &serr), "transport failures must not look like server status errors")
}

func TestListByUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/orders/user/u-7", r.URL.Path)
		json.NewEncoder(w).Encode([]models.Order{{OrderID: "o1"}, {OrderID: "o2"}})
	})

	orders, err := client.ListByUser(context.Background(), "u-7")
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestUpdateStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/orders/o1", r.URL.Path)

		var body map[string]models.OrderStatus
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, models.StatusShipped, body["status"])

		json.NewEncoder(w).Encode(models.Order{OrderID: "o1", Status: models.StatusShipped})
	})

	order, err := client.UpdateStatus(context.Background(), "o1", models.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, order.Status)
}

func TestDelete(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/orders/o1", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.Delete(context.Background(), "o1"))
}
