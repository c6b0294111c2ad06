package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/orderclient"
	"storefront/internal/storage"
)

func main() {
	config.Load()

	var persister cart.Persister
	if config.AppEnv.MongoURI != "" {
		client, err := database.Connect(config.AppEnv.MongoURI)
		if err != nil {
			log.Fatal(err)
		}
		db := client.Database(config.AppEnv.DBName)
		log.Println("MongoDB connected to:", db.Name())

		if err := database.EnsureCartIndexes(db); err != nil {
			log.Printf("⚠️ cart index warning: %v", err)
		}
		persister = storage.NewMongoStore(db)
	} else {
		fileStore, err := storage.NewFileStore(config.AppEnv.DataDir)
		if err != nil {
			log.Fatal(err)
		}
		log.Println("cart snapshots stored under:", config.AppEnv.DataDir)
		persister = fileStore
	}

	manager := cart.NewManager(persister)
	orders := orderclient.New(config.AppEnv.OrderServiceURL, config.AppEnv.OrderTimeout)
	registry := checkout.NewRegistry(orders, config.AppEnv.Fees)

	r := gin.Default()

	session := r.Group("/")
	session.Use(handlers.CartSession())
	{
		session.GET("/cart", handlers.GetCart(manager, config.AppEnv.Fees))
		session.GET("/cart/summary", handlers.GetCartSummary(manager, config.AppEnv.Fees))
		session.POST("/cart/items", handlers.AddCartItem(manager, config.AppEnv.Fees))
		session.POST("/cart/items/:productId/quantity", handlers.UpdateCartItemQuantity(manager))
		session.DELETE("/cart/items/:productId", handlers.RemoveCartItem(manager))
		session.DELETE("/cart", handlers.ClearCart(manager))

		session.POST("/checkout", handlers.Checkout(manager, registry, config.AppEnv.JWTSecret))
	}

	r.GET("/orders/mine", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMyOrders(orders))

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.GET("/orders", handlers.GetAllOrders(orders))
		admin.PUT("/orders/:id", handlers.UpdateOrderStatus(orders))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(orders))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
