package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/cart"
	"storefront/middleware"
	"storefront/models"
	"storefront/repositories"
	"storefront/services"
)

type OrderController struct {
	orderService *services.OrderService
	engines      *cart.Manager
}

func NewOrderController(engines *cart.Manager) *OrderController {
	return &OrderController{
		orderService: services.NewOrderService(),
		engines:      engines,
	}
}

// Checkout godoc
// @Summary Place an order
// @Description Create an order from the current cart. Guests must provide an email address.
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body models.CheckoutRequest true "Checkout Request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /checkout [post]
func (ctrl *OrderController) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	cartID := c.GetString("cart_id")
	if cartID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cart is empty"})
		return
	}

	var userID *string
	if id := c.GetString("user_id"); id != "" {
		userID = &id
	}

	order, err := ctrl.orderService.Checkout(c.Request.Context(), cartID, userID, req)
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientStock) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Insufficient stock for one or more items"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	// The persisted cart was cleared inside the order transaction; throw away
	// the in-memory engine and the guest cookie so the next read starts fresh.
	ctrl.engines.Drop(cartID)
	if userID == nil {
		middleware.ClearCartCookie(c)
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Order placed successfully",
		Data:    order,
	})
}

// GetOrders godoc
// @Summary List my orders
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /orders [get]
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	orders, err := ctrl.orderService.GetUserOrders(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve orders"})
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Orders retrieved successfully",
		Data:    orders,
	})
}

// GetOrderByID godoc
// @Summary Get order detail
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{id} [get]
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	order, err := ctrl.orderService.GetOrder(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve order"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Order retrieved successfully",
		Data:    order,
	})
}
