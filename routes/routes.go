package routes

import (
	"storefront/cart"
	"storefront/controllers"
	"storefront/middleware"
	"storefront/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRoutes(router *gin.Engine) {
	cartService := services.NewCartService()
	engines := cart.NewManager(cartService)

	authCtrl := controllers.NewAuthController(cartService, engines)
	productCtrl := controllers.NewProductController()
	cartCtrl := controllers.NewCartController(cartService, engines)
	orderCtrl := controllers.NewOrderController(engines)
	wishlistCtrl := controllers.NewWishlistController()

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	router.GET("/categories", productCtrl.GetCategories)
	router.GET("/products", productCtrl.GetProducts)
	router.GET("/products/filters", productCtrl.GetFilterOptions)
	router.GET("/products/:id", productCtrl.GetProductByID)

	// Cart and checkout work for guests and users alike; the cart identity
	// comes from the session cookie either way.
	session := router.Group("/")
	session.Use(middleware.CartIdentity())
	{
		session.POST("/auth/register", authCtrl.Register)
		session.POST("/auth/login", authCtrl.Login)

		sessionCart := session.Group("/cart")
		{
			sessionCart.GET("", cartCtrl.GetCart)
			sessionCart.POST("/items", cartCtrl.AddItem)
			sessionCart.PATCH("/items/:id", cartCtrl.UpdateItem)
			sessionCart.DELETE("/items/:id", cartCtrl.RemoveItem)
		}

		session.POST("/checkout", middleware.OptionalAuthMiddleware(), orderCtrl.Checkout)
	}

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.GET("/auth/profile", authCtrl.GetProfile)
		auth.PATCH("/auth/profile", authCtrl.UpdateProfile)

		auth.GET("/orders", orderCtrl.GetOrders)
		auth.GET("/orders/:id", orderCtrl.GetOrderByID)

		auth.GET("/wishlist", wishlistCtrl.GetWishlist)
		auth.POST("/wishlist", wishlistCtrl.AddToWishlist)
		auth.DELETE("/wishlist/:productId", wishlistCtrl.RemoveFromWishlist)
	}
}
