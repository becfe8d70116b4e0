package middleware

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the deployed storefront origin (ORIGIN_URL) plus the
// local Vite dev server. Credentials stay on because the cart identity rides
// in a cookie.
func CORSMiddleware() gin.HandlerFunc {
	origins := []string{"http://localhost:5173"}
	if origin := os.Getenv("ORIGIN_URL"); origin != "" {
		origins = append(origins, origin)
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
