package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pizzadelicia/pizzeria-api/internal/services"
)

// OrderController handles order intake and tracking
type OrderController struct {
	service services.OrderService
}

// NewOrderController creates a new instance of OrderController
func NewOrderController(service services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// CreateOrder accepts a cart submission from the authenticated customer
func (c *OrderController) CreateOrder(ctx *gin.Context) {
	userID, role, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req services.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Customers can only order for themselves; admins may submit phone
	// orders on behalf of any customer.
	if role != "admin" || req.CustomerID == 0 {
		req.CustomerID = userID
	}

	order, err := c.service.CreateOrder(req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"order_id": order.ID,
		"total":    order.Total,
		"status":   order.Status,
		"message":  "Pedido registrado correctamente",
	})
}

// ListOrders returns the caller's orders, or every order for admins
func (c *OrderController) ListOrders(ctx *gin.Context) {
	userID, role, ok := currentUser(ctx)
	if !ok {
		return
	}

	var (
		orders interface{}
		err    error
	)
	if role == "admin" {
		orders, err = c.service.ListOrders()
	} else {
		orders, err = c.service.ListOrdersByCustomer(userID)
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

// GetOrder returns a single order; customers can only see their own
func (c *OrderController) GetOrder(ctx *gin.Context) {
	userID, role, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	order, err := c.service.GetOrder(id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if role != "admin" && order.CustomerID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You can only view your own orders"})
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// UpdateStatus applies an admin status transition
func (c *OrderController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := c.service.UpdateStatus(id, req.Status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, order)
}
