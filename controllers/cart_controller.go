package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/cart"
	"storefront/middleware"
	"storefront/models"
	"storefront/services"
)

// CartController serves the cart endpoints through the reconciliation
// engine: every mutation answers with the optimistic snapshot immediately
// while the engine persists it in the background.
type CartController struct {
	cartService *services.CartService
	engines     *cart.Manager
}

func NewCartController(cartService *services.CartService, engines *cart.Manager) *CartController {
	return &CartController{
		cartService: cartService,
		engines:     engines,
	}
}

// engineFor returns the running engine for the identity, seeding a new one
// from the authoritative store on first touch.
func (ctrl *CartController) engineFor(ctx context.Context, cartID string) (*cart.Engine, error) {
	if e, ok := ctrl.engines.Lookup(cartID); ok {
		return e, nil
	}
	snapshot, err := ctrl.cartService.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return ctrl.engines.Get(cartID, snapshot), nil
}

// GetCart godoc
// @Summary Get cart
// @Description Get the current cart for the session
// @Tags Cart
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	cartID := c.GetString("cart_id")
	if cartID == "" {
		c.JSON(http.StatusOK, models.Response{
			Success: true,
			Message: "Cart retrieved successfully",
			Data:    models.EmptyCart(),
		})
		return
	}

	snapshot, err := ctrl.cartService.GetCart(c.Request.Context(), cartID)
	if err != nil {
		log.Println("Failed to load cart:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load cart"})
		return
	}

	// A fresh authoritative read replaces the optimistic state wholesale.
	snap := ctrl.engines.Get(cartID, snapshot).Reconcile(snapshot)

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart retrieved successfully",
		Data:    snap,
	})
}

// AddItem godoc
// @Summary Add item to cart
// @Description Add a product variant to the cart, merging quantity onto an existing line
// @Tags Cart
// @Accept json
// @Produce json
// @Param request body models.AddCartItemRequest true "Add Item Request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /cart/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	ctx := c.Request.Context()
	cartID, created, err := ctrl.cartService.EnsureCart(ctx, c.GetString("cart_id"))
	if err != nil {
		log.Println("Failed to ensure cart:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create cart"})
		return
	}
	if created {
		middleware.SetCartCookie(c, cartID)
	}

	engine, err := ctrl.engineFor(ctx, cartID)
	if err != nil {
		log.Println("Failed to load cart:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load cart"})
		return
	}

	snap, err := engine.AddLine(req.ProductID, req.VariantID, req.Quantity, cart.LineDetails{
		ProductName: req.ProductName,
		VariantName: req.VariantName,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Quantity must be at least 1"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add item"})
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Item added to cart",
		Data:    snap,
	})
}

// UpdateItem godoc
// @Summary Update cart item quantity
// @Description Set the absolute quantity of a cart line; zero removes it
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path string true "Cart item ID"
// @Param request body models.UpdateCartItemRequest true "Update Request"
// @Success 200 {object} models.Response
// @Router /cart/items/{id} [patch]
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	cartID := c.GetString("cart_id")
	if cartID == "" {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No cart for this session"})
		return
	}

	engine, err := ctrl.engineFor(c.Request.Context(), cartID)
	if err != nil {
		log.Println("Failed to load cart:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load cart"})
		return
	}

	snap := engine.UpdateQuantity(c.Param("id"), req.Quantity)
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart updated",
		Data:    snap,
	})
}

// RemoveItem godoc
// @Summary Remove cart item
// @Description Delete a line from the cart; removing an absent line is a no-op
// @Tags Cart
// @Produce json
// @Param id path string true "Cart item ID"
// @Success 200 {object} models.Response
// @Router /cart/items/{id} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	cartID := c.GetString("cart_id")
	if cartID == "" {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No cart for this session"})
		return
	}

	engine, err := ctrl.engineFor(c.Request.Context(), cartID)
	if err != nil {
		log.Println("Failed to load cart:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load cart"})
		return
	}

	snap := engine.RemoveLine(c.Param("id"))
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Item removed",
		Data:    snap,
	})
}
