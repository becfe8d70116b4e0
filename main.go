package main

import (
	"context"
	"log"
	"time"

	"storefront/config"
	_ "storefront/docs"
	"storefront/middleware"
	"storefront/models"
	"storefront/repositories"
	"storefront/routes"

	"github.com/gin-gonic/gin"
)

// @title Storefront API
// @version 1.0
// @description E-commerce storefront with an optimistic cart
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {

	config.LoadConfig()

	if config.AppConfig.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	models.InitDB()
	defer models.CloseDB()

	models.InitRedis()
	defer models.CloseRedis()

	go pruneExpiredGuests()

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	routes.SetupRoutes(router)

	port := ":" + config.AppConfig.Port
	log.Printf("Server starting on port %s", port)
	log.Printf("Environment: %s", config.AppConfig.AppEnv)
	log.Printf("Swagger UI: http://localhost:%s/swagger/index.html", config.AppConfig.Port)

	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// pruneExpiredGuests removes guest sessions past their expiry twice a day;
// their carts go with them via foreign key cascade.
func pruneExpiredGuests() {
	userRepo := repositories.NewUserRepository()
	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		n, err := userRepo.DeleteExpiredGuests(ctx)
		cancel()
		if err != nil {
			log.Println("Guest cleanup failed:", err)
			continue
		}
		if n > 0 {
			log.Printf("Removed %d expired guest sessions", n)
		}
	}
}
