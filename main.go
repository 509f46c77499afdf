package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/webshop/backend/database"
	"github.com/webshop/backend/handlers"
	"github.com/webshop/backend/natsserver"
	"github.com/webshop/backend/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	if err := database.Connect(); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
	defer database.Close()

	// Start embedded NATS server for the activity bus
	natsPort := 4222
	if p := os.Getenv("NATS_PORT"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			natsPort = parsed
		}
	}
	bus, err := natsserver.New(natsserver.Config{
		Port:       natsPort,
		MaxPayload: 1024 * 1024,
	})
	if err != nil {
		log.Fatalf("❌ Failed to start NATS server: %v", err)
	}
	defer bus.Shutdown()

	// Initialize activity hub for WebSocket streaming
	hub := services.NewActivityHub(bus.Conn())
	go hub.Run()
	log.Println("📺 Activity hub initialized")

	// Services
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		jwtSecret = []byte("default-dev-secret-change-me")
	}
	exposeOwner := os.Getenv("EXPOSE_PRODUCT_OWNER") != "false"

	authService := services.NewAuthService(database.DB, jwtSecret)
	productService := services.NewProductService(database.DB, bus.Conn(), exposeOwner)
	manufacturerService := services.NewManufacturerService(database.DB, bus.Conn())

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	manufacturerHandler := handlers.NewManufacturerHandler(manufacturerService)
	activityHandler := handlers.NewActivityHandler(hub, bus)

	// Setup Gin router
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(config))

	router.GET("/", func(c *gin.Context) {
		c.String(200, "Welcome to the Webshop API!")
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Auth routes
	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)
	router.GET("/me", authHandler.RequireAuth(), authHandler.Me)
	router.GET("/user/:id", authHandler.GetUser)
	router.PUT("/change-password", authHandler.RequireAuth(), authHandler.ChangePassword)

	// Product routes
	router.GET("/products", productHandler.List)
	router.GET("/products/:id", productHandler.Get)
	router.POST("/products", authHandler.RequireAuth(), productHandler.Create)
	router.PUT("/products/:id", authHandler.RequireAuth(), productHandler.Update)
	router.DELETE("/products/:id", authHandler.RequireAuth(), productHandler.Delete)

	// Manufacturer routes
	router.GET("/manufacturers", manufacturerHandler.List)
	router.GET("/manufacturers/:id", manufacturerHandler.Get)
	router.POST("/manufacturers", authHandler.RequireAuth(), manufacturerHandler.Create)
	router.PUT("/manufacturers/:id", authHandler.RequireAuth(), manufacturerHandler.Update)
	router.DELETE("/manufacturers/:id", authHandler.RequireAuth(), manufacturerHandler.Delete)

	// WebSocket route for the live activity feed (outside /api group)
	router.GET("/ws/activity", activityHandler.HandleWebSocket)

	// API Routes
	api := router.Group("/api")
	{
		api.GET("/activity/stats", activityHandler.GetStats)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	log.Printf("🚀 Server running on http://localhost:%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
