package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const CartCookieName = "cart_id"

const cartCookieMaxAge = int(30 * 24 * time.Hour / time.Second)

// CartIdentity reads the cart cookie into the request context. The cookie is
// the opaque identity the reconciliation engine works against; nothing here
// looks at authentication state.
func CartIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(CartCookieName); err == nil && id != "" {
			c.Set("cart_id", id)
		}
		c.Next()
	}
}

// SetCartCookie binds a cart id to the client for 30 days.
func SetCartCookie(c *gin.Context, cartID string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CartCookieName, cartID, cartCookieMaxAge, "/", "", false, true)
}

// ClearCartCookie drops the binding, e.g. after a guest cart was merged away.
func ClearCartCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CartCookieName, "", -1, "/", "", false, true)
}
