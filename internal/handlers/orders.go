package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/orderclient"
)

/* =========================
   ORDER HISTORY
========================= */

// GetMyOrders returns the authenticated user's order history from the order
// service.
func GetMyOrders(orders *orderclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/mine"
		defer handlePanic(c, route)

		userID := c.GetString("userId")
		list, err := orders.ListByUser(c.Request.Context(), userID)
		if err != nil {
			respondWithOrderServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

/* =========================
   ADMIN ORDER PROXY
========================= */

func GetAllOrders(orders *orderclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders"
		defer handlePanic(c, route)

		list, err := orders.List(c.Request.Context())
		if err != nil {
			respondWithOrderServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

type updateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	// CurrentStatus, when the console sends it, lets us reject an
	// impossible transition before bothering the order service.
	CurrentStatus models.OrderStatus `json:"currentStatus"`
}

func UpdateOrderStatus(orders *orderclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/orders/:id"
		defer handlePanic(c, route)

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}
		if !req.Status.Valid() {
			respondWithError(c, http.StatusBadRequest, route, "unknown status")
			return
		}
		if req.CurrentStatus != "" && !req.CurrentStatus.CanTransitionTo(req.Status) {
			respondWithError(c, http.StatusBadRequest, route, "invalid status transition")
			return
		}

		order, err := orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			respondWithOrderServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

func DeleteOrder(orders *orderclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/orders/:id"
		defer handlePanic(c, route)

		if err := orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondWithOrderServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}

func respondWithOrderServiceError(c *gin.Context, route string, err error) {
	var serr *orderclient.StatusError
	if errors.As(err, &serr) {
		if serr.Code == http.StatusNotFound {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		respondWithError(c, http.StatusBadGateway, route, "order service error")
		return
	}
	respondWithError(c, http.StatusBadGateway, route, "order service unreachable")
}
