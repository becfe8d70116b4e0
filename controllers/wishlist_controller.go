package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/models"
	"storefront/services"
)

type WishlistController struct {
	wishlistService *services.WishlistService
}

func NewWishlistController() *WishlistController {
	return &WishlistController{
		wishlistService: services.NewWishlistService(),
	}
}

// AddToWishlist godoc
// @Summary Add to wishlist
// @Tags Wishlist
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.WishlistRequest true "Wishlist Request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /wishlist [post]
func (ctrl *WishlistController) AddToWishlist(c *gin.Context) {
	var req models.WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if err := ctrl.wishlistService.Add(c.Request.Context(), c.GetString("user_id"), req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add to wishlist"})
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Added to wishlist",
	})
}

// RemoveFromWishlist godoc
// @Summary Remove from wishlist
// @Description Remove a product, or one variant of it when variant_id is given
// @Tags Wishlist
// @Security BearerAuth
// @Produce json
// @Param productId path string true "Product ID"
// @Param variant_id query string false "Variant ID"
// @Success 200 {object} models.Response
// @Router /wishlist/{productId} [delete]
func (ctrl *WishlistController) RemoveFromWishlist(c *gin.Context) {
	var variantID *string
	if v := c.Query("variant_id"); v != "" {
		variantID = &v
	}

	if err := ctrl.wishlistService.Remove(c.Request.Context(), c.GetString("user_id"), c.Param("productId"), variantID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove from wishlist"})
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Removed from wishlist",
	})
}

// GetWishlist godoc
// @Summary Get my wishlist
// @Tags Wishlist
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /wishlist [get]
func (ctrl *WishlistController) GetWishlist(c *gin.Context) {
	items, err := ctrl.wishlistService.GetByUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve wishlist"})
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Wishlist retrieved successfully",
		Data:    items,
	})
}
