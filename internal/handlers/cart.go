package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/pricing"
)

/* =========================
   REQUEST DTOs
========================= */

type addItemRequest struct {
	ProductID       string  `json:"productId" binding:"required"`
	UnitPrice       float64 `json:"unitPrice" binding:"min=0"`
	Quantity        int     `json:"quantity"`
	SelectedVariant string  `json:"selectedVariant"`
	Title           string  `json:"title" binding:"required"`
	Image           string  `json:"image"`
	Brand           string  `json:"brand"`
}

type updateQuantityRequest struct {
	Action cart.Action `json:"action" binding:"required,oneof=increment decrement"`
}

type cartResponse struct {
	Lines   []models.CartLine   `json:"lines"`
	Summary models.OrderSummary `json:"summary"`
}

/* =========================
   CART
========================= */

func GetCart(manager *cart.Manager, fees models.FeeConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		store := manager.Store(c.Request.Context(), cartKey(c))
		respondWithCart(c, route, store, fees)
	}
}

func AddCartItem(manager *cart.Manager, fees models.FeeConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/items"
		defer handlePanic(c, route)

		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		store := manager.Store(c.Request.Context(), cartKey(c))
		event := store.AddItem(models.CartLine{
			ProductID:       req.ProductID,
			UnitPrice:       req.UnitPrice,
			Quantity:        req.Quantity,
			SelectedVariant: req.SelectedVariant,
			Snapshot: models.ProductSnapshot{
				Title: req.Title,
				Image: req.Image,
				Brand: req.Brand,
			},
		})

		c.JSON(http.StatusOK, gin.H{"event": event, "lines": store.Lines()})
	}
}

func UpdateCartItemQuantity(manager *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/items/:productId/quantity"
		defer handlePanic(c, route)

		var req updateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "action must be increment or decrement")
			return
		}

		store := manager.Store(c.Request.Context(), cartKey(c))
		event, ok := store.UpdateQuantity(c.Param("productId"), c.Query("variant"), req.Action)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "item not in cart")
			return
		}

		c.JSON(http.StatusOK, gin.H{"event": event, "lines": store.Lines()})
	}
}

func RemoveCartItem(manager *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/items/:productId"
		defer handlePanic(c, route)

		store := manager.Store(c.Request.Context(), cartKey(c))
		if !store.RemoveItem(c.Param("productId"), c.Query("variant")) {
			respondWithError(c, http.StatusNotFound, route, "item not in cart")
			return
		}

		c.JSON(http.StatusOK, gin.H{"lines": store.Lines()})
	}
}

func ClearCart(manager *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"
		defer handlePanic(c, route)

		store := manager.Store(c.Request.Context(), cartKey(c))
		store.Clear()

		c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
	}
}

func GetCartSummary(manager *cart.Manager, fees models.FeeConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart/summary"
		defer handlePanic(c, route)

		store := manager.Store(c.Request.Context(), cartKey(c))
		respondWithCart(c, route, store, fees)
	}
}

// respondWithCart recomputes the summary from the current cart on every read.
func respondWithCart(c *gin.Context, route string, store *cart.Store, fees models.FeeConfig) {
	lines := store.Lines()
	summary, err := pricing.ComputeSummary(lines, fees, 0)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, route, err.Error())
		return
	}
	c.JSON(http.StatusOK, cartResponse{Lines: lines, Summary: summary})
}
