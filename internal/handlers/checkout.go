package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/orderclient"
)

type checkoutShippingRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	Contact string `json:"contact" binding:"required"`
	Note    string `json:"note"`
}

type checkoutRequest struct {
	ShippingInfo  checkoutShippingRequest `json:"shippingInfo" binding:"required"`
	PaymentMethod string                  `json:"paymentMethod" binding:"required"`
	Discount      float64                 `json:"discount"`
}

// Checkout submits the session's cart as an order. Guests may check out; a
// valid Bearer token attaches the order to the user.
func Checkout(manager *cart.Manager, registry *checkout.Registry, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout"
		defer handlePanic(c, route)

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		userID, err := middleware.UserIDFromHeader(c.GetHeader("Authorization"), jwtSecret)
		if err != nil {
			log.Println("[CHECKOUT] [ERROR] token validation failed:", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		key := cartKey(c)
		store := manager.Store(c.Request.Context(), key)
		coordinator := registry.For(key, store)

		order, err := coordinator.Submit(c.Request.Context(), checkout.SubmitInput{
			UserID: userID,
			Shipping: models.ShippingInfo{
				Name:    req.ShippingInfo.Name,
				Address: req.ShippingInfo.Address,
				Contact: req.ShippingInfo.Contact,
				Note:    req.ShippingInfo.Note,
			},
			PaymentMethod: req.PaymentMethod,
			Discount:      req.Discount,
		})
		if err != nil {
			respondWithCheckoutError(c, route, err)
			return
		}

		if userID != "" {
			log.Println("[CHECKOUT] [INFO] order created for user:", userID)
		} else {
			log.Println("[CHECKOUT] [INFO] guest order created")
		}

		c.JSON(http.StatusCreated, gin.H{
			"orderId": order.OrderID,
			"order":   order,
			"message": "order created",
		})
	}
}

// respondWithCheckoutError maps the checkout error taxonomy onto HTTP
// statuses: validation 400, double submit 409, order service trouble 502.
func respondWithCheckoutError(c *gin.Context, route string, err error) {
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		log.Printf("[%s] validation failed: %s", route, verr.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason, "field": verr.Field})
		return
	}

	if errors.Is(err, checkout.ErrSubmitInFlight) {
		c.JSON(http.StatusConflict, gin.H{"error": "a submission is already in progress"})
		return
	}

	var serr *orderclient.StatusError
	if errors.As(err, &serr) {
		log.Printf("[%s] order service rejected the order: %d %s", route, serr.Code, serr.Body)
		c.JSON(http.StatusBadGateway, gin.H{"error": "order service rejected the order", "detail": serr.Body})
		return
	}

	respondWithError(c, http.StatusBadGateway, route, "order could not be submitted, cart preserved")
}
