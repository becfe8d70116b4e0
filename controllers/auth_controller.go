package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/cart"
	"storefront/middleware"
	"storefront/models"
	"storefront/services"
)

type AuthController struct {
	authService *services.AuthService
	cartService *services.CartService
	engines     *cart.Manager
}

func NewAuthController(cartService *services.CartService, engines *cart.Manager) *AuthController {
	return &AuthController{
		authService: services.NewAuthService(),
		cartService: cartService,
		engines:     engines,
	}
}

// mergeGuestCart runs the one-time guest-to-user merge after a successful
// sign-in or sign-up. It must finish before the response goes out so the
// client's next cart read sees the merged cart. The guest engine is dropped
// first: Drop drains its pending submissions, so an add the user made just
// before logging in reaches the guest cart rows before they are copied over
// and deleted.
func (ctrl *AuthController) mergeGuestCart(c *gin.Context, userID string) {
	guestCartID := c.GetString("cart_id")
	if guestCartID == "" {
		return
	}

	ctrl.engines.Drop(guestCartID)

	userCartID, err := ctrl.cartService.MergeGuestCart(c.Request.Context(), guestCartID, userID)
	if err != nil {
		log.Println("Failed to merge guest cart:", err)
		return
	}

	middleware.SetCartCookie(c, userCartID)
}

// Register godoc
// @Summary Register new user
// @Description Register a new customer account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register Request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	result, err := ctrl.authService.Register(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctrl.mergeGuestCart(c, result.User.ID)

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Registration successful",
		Data:    result,
	})
}

// Login godoc
// @Summary Login
// @Description Authenticate and receive a token; any guest cart is merged into the user cart
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	result, err := ctrl.authService.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctrl.mergeGuestCart(c, result.User.ID)

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Login successful",
		Data:    result,
	})
}

// GetProfile godoc
// @Summary Get profile
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /auth/profile [get]
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	user, err := ctrl.authService.GetProfile(c.Request.Context(), c.GetString("user_id"))
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}

// UpdateProfile godoc
// @Summary Update profile
// @Tags Authentication
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.UpdateProfileRequest true "Update Request"
// @Success 200 {object} models.Response
// @Router /auth/profile [patch]
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if err := ctrl.authService.UpdateProfile(c.Request.Context(), c.GetString("user_id"), req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Profile updated successfully",
	})
}
